package lastfm

import "testing"

func TestSignSortsAndHashes(t *testing.T) {
	params := map[string]string{
		"token":   "xyz",
		"method":  "auth.getSession",
		"api_key": "abc",
	}

	// md5("api_keyabc" + "methodauth.getSession" + "tokenxyz" + "s3cret")
	want := "4bb17654033fa2d5b549adac21d25520"
	if got := Sign(params, "s3cret"); got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
}

func TestSignWriteCall(t *testing.T) {
	params := map[string]string{
		"method":       "track.scrobble",
		"sk":           "SK",
		"artist[0]":    "Queen",
		"track[0]":     "One Vision",
		"timestamp[0]": "100",
	}

	want := "c57d866b8040b72db0154981b217ac18"
	if got := Sign(params, "secret"); got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	params := map[string]string{"a": "1", "b": "2", "c": "3"}

	first := Sign(params, "s")
	for i := 0; i < 20; i++ {
		if got := Sign(params, "s"); got != first {
			t.Fatalf("Sign not deterministic: %s vs %s", got, first)
		}
	}
}
