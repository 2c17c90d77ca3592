// Package kvstore implements the entity repositories and the derived-index
// maintainer on top of the flat key-value store.
//
// Key scheme:
//
//	listing:<uuid>                      one listing (the id is its own key)
//	message:<uuid>                      one message
//	user:<id>                           one user profile
//	user-listings:<userId>              JSON array of listing ids
//	conversation:<a>:<b>:<listingId>    JSON array of message ids, a < b
package kvstore

import (
	"sort"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

const (
	ListingPrefix = domain.ListingIDPrefix
	MessagePrefix = "message:"
	profilePrefix = "user:"

	userListingsPrefix = "user-listings:"
	conversationPrefix = "conversation:"
)

func profileKey(userID string) string {
	return profilePrefix + userID
}

func userListingsKey(ownerID string) string {
	return userListingsPrefix + ownerID
}

// ConversationKey derives the deterministic key of a two-party, per-listing
// thread. The participant pair is unordered: the ids are sorted
// lexicographically so both sides compute the same key regardless of who is
// sender and who is recipient.
func ConversationKey(userA, userB, listingID string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return conversationPrefix + pair[0] + ":" + pair[1] + ":" + listingID
}
