// Package skypeid implements the identity, codec, and filesystem-safety
// helpers shared by every other package: Skype identity prefixes, the
// pk_id/guid message-ID packing, and the small string utilities the rest
// of the accessor and sync layers build on.
package skypeid

import (
	"encoding/base64"
	"encoding/binary"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
)

// Identity prefixes used throughout the Skype schema.
const (
	PrefixSingle  = "8:"
	PrefixGroup   = "19:"
	PrefixBot     = "28:"
	PrefixSpecial = "48:"
)

// StripPrefix removes a leading identity prefix, if any, returning the
// bare identity and the prefix that was removed ("" if none matched).
func StripPrefix(identity string) (bare, prefix string) {
	for _, p := range []string{PrefixGroup, PrefixBot, PrefixSpecial, PrefixSingle} {
		if strings.HasPrefix(identity, p) {
			return identity[len(p):], p
		}
	}
	return identity, ""
}

// IdentityToID strips the "8:"/"28:" single-user prefixes, matching the
// live-sync convert step that stores bare identities as the message author.
func IdentityToID(identity string) string {
	bare, prefix := StripPrefix(identity)
	if prefix == PrefixGroup || prefix == PrefixSpecial {
		return identity
	}
	return bare
}

// IDToIdentity re-adds the canonical prefix to a bare contact/account id.
// isBot controls whether the bot prefix or the plain single prefix applies.
func IDToIdentity(id string, isBot bool) string {
	if strings.HasPrefix(id, PrefixBot) || strings.HasPrefix(id, PrefixGroup) || strings.HasPrefix(id, PrefixSpecial) || strings.HasPrefix(id, PrefixSingle) {
		return id
	}
	if isBot {
		return PrefixBot + id
	}
	return PrefixSingle + id
}

// MakeMessageIDs derives (pk_id, guid) from a remote message identifier,
// mirroring the original engine's make_message_ids: if remoteID parses as
// a base-10 integer it is used directly as pk_id (packed as 4 bytes when it
// fits an int32, else 8 bytes); non-numeric identifiers are hashed with
// FNV-1a to obtain a stable, deterministic pseudo pk_id.
func MakeMessageIDs(remoteID string) (pkID int64, guid [32]byte) {
	if n, err := strconv.ParseInt(remoteID, 10, 64); err == nil {
		pkID = n
	} else {
		h := fnv.New64a()
		_, _ = h.Write([]byte(remoteID))
		pkID = int64(h.Sum64() & 0x7fffffffffffffff)
	}
	guid = PkIDToGUID(pkID)
	return pkID, guid
}

// PkIDToGUID packs pkID little-endian into 4 bytes if it fits an int32,
// else 8 bytes, then repeats that byte pattern to fill exactly 32 bytes.
func PkIDToGUID(pkID int64) [32]byte {
	var unit []byte
	if pkID >= -(1<<31) && pkID < (1<<31) {
		unit = make([]byte, 4)
		binary.LittleEndian.PutUint32(unit, uint32(int32(pkID)))
	} else {
		unit = make([]byte, 8)
		binary.LittleEndian.PutUint64(unit, uint64(pkID))
	}
	var guid [32]byte
	for i := 0; i < 32; i++ {
		guid[i] = unit[i%len(unit)]
	}
	return guid
}

// HashString derives a stable, filename-safe hash for use in cache and
// token-file path derivation (make_db_path equivalent).
func HashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]+`)

// SafeFilename strips characters that are invalid in file names on the
// common desktop filesystems, collapsing runs into a single underscore.
func SafeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, " .")
	if s == "" {
		s = "_"
	}
	return s
}

// MakeDBPath derives a cache/token-file-safe slug from a username, adding
// a hash suffix so distinct usernames that collapse to the same slug
// (differing only in the stripped characters) remain distinguishable.
func MakeDBPath(username string) string {
	slug := SafeFilename(username)
	if slug != username {
		return slug + "_" + strconv.FormatUint(uint64(HashString(username)), 36)
	}
	return slug
}

// B64Encode/B64Decode wrap the standard base64 codec used for the legacy
// p2p thread identity form ("19:<b64>@p2p.thread.skype").
func B64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func B64Decode(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// IsBot reports whether an identity or bare id carries the bot prefix.
func IsBot(identity string) bool { return strings.HasPrefix(identity, PrefixBot) }
