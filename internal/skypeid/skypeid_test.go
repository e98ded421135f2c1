package skypeid

import "testing"

func TestMakeMessageIDsNumeric(t *testing.T) {
	pkID, guid := MakeMessageIDs("12345")
	if pkID != 12345 {
		t.Fatalf("pkID = %d, want 12345", pkID)
	}
	if len(guid) != 32 {
		t.Fatalf("guid length = %d, want 32", len(guid))
	}
	want := PkIDToGUID(12345)
	if guid != want {
		t.Fatalf("guid = %x, want %x", guid, want)
	}
}

func TestPkIDToGUIDLargeValue(t *testing.T) {
	guid := PkIDToGUID(1 << 40)
	if len(guid) != 32 {
		t.Fatalf("guid length = %d, want 32", len(guid))
	}
	// unit should be 8 bytes repeated four times
	if string(guid[0:8]) != string(guid[8:16]) {
		t.Fatalf("guid pattern not repeated: %x", guid)
	}
}

func TestMakeMessageIDsNonNumericIsStable(t *testing.T) {
	pkID1, guid1 := MakeMessageIDs("some-remote-id")
	pkID2, guid2 := MakeMessageIDs("some-remote-id")
	if pkID1 != pkID2 || guid1 != guid2 {
		t.Fatalf("MakeMessageIDs not deterministic for same input")
	}
}

func TestStripPrefix(t *testing.T) {
	cases := []struct{ in, bare, prefix string }{
		{"8:alice", "alice", PrefixSingle},
		{"19:group1", "group1", PrefixGroup},
		{"28:bot1", "bot1", PrefixBot},
		{"48:special", "special", PrefixSpecial},
		{"noprefix", "noprefix", ""},
	}
	for _, c := range cases {
		bare, prefix := StripPrefix(c.in)
		if bare != c.bare || prefix != c.prefix {
			t.Errorf("StripPrefix(%q) = (%q, %q), want (%q, %q)", c.in, bare, prefix, c.bare, c.prefix)
		}
	}
}

func TestIDToIdentityRoundTrip(t *testing.T) {
	if got := IDToIdentity("alice", false); got != "8:alice" {
		t.Errorf("IDToIdentity = %q, want 8:alice", got)
	}
	if got := IDToIdentity("bot1", true); got != "28:bot1" {
		t.Errorf("IDToIdentity = %q, want 28:bot1", got)
	}
	if got := IdentityToID("8:alice"); got != "alice" {
		t.Errorf("IdentityToID = %q, want alice", got)
	}
}

func TestSafeFilename(t *testing.T) {
	got := SafeFilename(`weird:"name"/with*bad?chars`)
	if got == "" {
		t.Fatal("SafeFilename returned empty string")
	}
	if unsafeFilenameChars.MatchString(got) {
		t.Fatalf("SafeFilename left unsafe characters: %q", got)
	}
}

func TestB64RoundTrip(t *testing.T) {
	orig := []byte("#alice/$bob;hex")
	enc := B64Encode(orig)
	dec, err := B64Decode(enc)
	if err != nil {
		t.Fatalf("B64Decode error: %v", err)
	}
	if string(dec) != string(orig) {
		t.Fatalf("round trip mismatch: got %q, want %q", dec, orig)
	}
}
