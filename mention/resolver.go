// Package mention maps @-tokens in outgoing text to chat member ids.
package mention

import (
	"regexp"
	"strings"

	"portal-chat/domain"
)

var tokenPattern = regexp.MustCompile(`@(\w+)`)

// Resolve extracts every "@" + word-characters token from text and maps
// it to a member id by case-insensitive substring match, checking each
// member's display name before their legal name. The first matching
// member in list-iteration order wins; when two members share
// overlapping name substrings this is the tie-break, so the member
// list order is part of the contract. Unmatched tokens are dropped
// silently, never stored as unresolved placeholders. Duplicates are
// not deduplicated.
func Resolve(text string, members []domain.Member) []domain.UserID {
	var mentions []domain.UserID
	for _, token := range tokenPattern.FindAllStringSubmatch(text, -1) {
		needle := strings.ToLower(token[1])
		for _, member := range members {
			if strings.Contains(strings.ToLower(member.DisplayName), needle) ||
				strings.Contains(strings.ToLower(member.FullName), needle) {
				mentions = append(mentions, member.ID)
				break
			}
		}
	}
	return mentions
}
