package models

import (
	"encoding/json"
	"sort"
)

// ReactionKind is one of the closed set of emotive responses attachable to a post.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionHaha  ReactionKind = "haha"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds lists every kind in display order. The order also breaks ties in Top.
var ReactionKinds = []ReactionKind{
	ReactionLike,
	ReactionLove,
	ReactionHaha,
	ReactionWow,
	ReactionSad,
	ReactionAngry,
}

var reactionIcons = map[ReactionKind]string{
	ReactionLike:  "👍",
	ReactionLove:  "❤",
	ReactionHaha:  "😂",
	ReactionWow:   "😮",
	ReactionSad:   "😢",
	ReactionAngry: "😠",
}

// Valid reports whether k belongs to the closed set.
func (k ReactionKind) Valid() bool {
	_, ok := reactionIcons[k]
	return ok
}

// Icon returns the emoji shown for k, or an empty string for unknown kinds.
func (k ReactionKind) Icon() string {
	return reactionIcons[k]
}

func (k ReactionKind) rank() int {
	for i, kind := range ReactionKinds {
		if kind == k {
			return i
		}
	}
	return len(ReactionKinds)
}

// ParseReactionKind validates a raw reaction name.
func ParseReactionKind(raw string) (ReactionKind, bool) {
	k := ReactionKind(raw)
	return k, k.Valid()
}

// ReactionCount pairs a kind with its tally.
type ReactionCount struct {
	Kind  ReactionKind
	Count int
}

// Reactions maps each reaction kind to its count on a post.
type Reactions map[ReactionKind]int

// UnmarshalJSON keeps only kinds from the closed set; unknown keys are dropped.
func (r *Reactions) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Reactions, len(raw))
	for key, count := range raw {
		kind := ReactionKind(key)
		if !kind.Valid() {
			continue
		}
		out[kind] = count
	}
	*r = out
	return nil
}

// Top returns at most n kinds with a positive count, highest count first.
// Equal counts keep the fixed ReactionKinds order.
func (r Reactions) Top(n int) []ReactionCount {
	if n <= 0 {
		return nil
	}
	counts := make([]ReactionCount, 0, len(r))
	for kind, count := range r {
		if count <= 0 || !kind.Valid() {
			continue
		}
		counts = append(counts, ReactionCount{Kind: kind, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Kind.rank() < counts[j].Kind.rank()
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
