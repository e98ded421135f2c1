package skypedata

import (
	"strings"

	"skyperious/internal/skypeid"
)

// Links rebuilds the back-reference from a migrated P2P conversation to
// its legacy thread, mirroring populate_conversation_links: a conversation
// whose alt_identity names another conversation's identity is that
// conversation's successor; a legacy "19:<base64>@p2p.thread.skype"
// identity decodes to the same pair of participants as its modern
// counterpart. The result is never cached — callers recompute it each
// time they need it, since it is cheap and derived purely from already
// loaded rows.
func Links(conversations []Conversation) map[string]*Conversation {
	byIdentity := make(map[string]*Conversation, len(conversations))
	out := make([]Conversation, len(conversations))
	copy(out, conversations)
	for i := range out {
		byIdentity[out[i].Identity] = &out[i]
	}

	links := make(map[string]*Conversation, len(out))
	for i := range out {
		c := &out[i]
		if c.AltIdentity == "" {
			continue
		}
		if target, ok := byIdentity[c.AltIdentity]; ok {
			c.Link = target
			links[target.Identity] = c
			continue
		}
		if decoded, ok := decodeLegacyP2PIdentity(c.AltIdentity); ok {
			if target, ok := byIdentity[decoded]; ok {
				c.Link = target
				links[target.Identity] = c
			}
		}
	}
	return links
}

const legacyP2PSuffix = "@p2p.thread.skype"

// decodeLegacyP2PIdentity decodes a "19:<base64>@p2p.thread.skype"
// identity into the bare single-user identity it encodes, if any.
func decodeLegacyP2PIdentity(identity string) (string, bool) {
	bare, prefix := skypeid.StripPrefix(identity)
	if prefix != skypeid.PrefixGroup || !strings.HasSuffix(bare, legacyP2PSuffix) {
		return "", false
	}
	encoded := strings.TrimSuffix(bare, legacyP2PSuffix)
	decoded, err := skypeid.B64Decode(encoded)
	if err != nil {
		return "", false
	}
	s := string(decoded)
	if s == "" {
		return "", false
	}
	return s, true
}
