package models

import "strings"

// User represents an account on the FaceConnect network as returned by the API.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsVerified     bool      `json:"is_verified"`
	IsOnline       bool      `json:"is_online"`
	LastSeen       Timestamp `json:"last_seen,omitempty"`
}

// DisplayName joins the first and last name the way every view presents a user.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Avatar returns the profile picture or the supplied placeholder when none is set.
func (u User) Avatar(fallback string) string {
	if u.ProfilePicture != "" {
		return u.ProfilePicture
	}
	return fallback
}

// IsZero reports whether the user carries no identity.
func (u User) IsZero() bool {
	return u.ID == 0
}

// Profile is the expanded user view served by GET /profile/{id}.
type Profile struct {
	User
	CoverPhoto         string    `json:"cover_photo,omitempty"`
	Location           string    `json:"location,omitempty"`
	Website            string    `json:"website,omitempty"`
	RelationshipStatus string    `json:"relationship_status,omitempty"`
	Work               string    `json:"work,omitempty"`
	Education          string    `json:"education,omitempty"`
	CreatedAt          Timestamp `json:"created_at"`
	FollowersCount     int       `json:"followers_count"`
	FollowingCount     int       `json:"following_count"`
	PostsCount         int       `json:"posts_count"`
	IsFriend           bool      `json:"is_friend"`
	IsFollowing        bool      `json:"is_following"`
	MutualFriends      int       `json:"mutual_friends"`
}

// Post is an immutable snapshot of a feed entry.
type Post struct {
	ID            int64         `json:"id"`
	Author        User          `json:"author"`
	Content       string        `json:"content"`
	Images        []string      `json:"images,omitempty"`
	Video         string        `json:"video,omitempty"`
	Location      string        `json:"location,omitempty"`
	Feeling       string        `json:"feeling,omitempty"`
	Privacy       string        `json:"privacy,omitempty"`
	IsEdited      bool          `json:"is_edited"`
	CreatedAt     Timestamp     `json:"created_at"`
	LikesCount    int           `json:"likes_count"`
	CommentsCount int           `json:"comments_count"`
	SharesCount   int           `json:"shares_count"`
	Reactions     Reactions     `json:"reactions,omitempty"`
	UserReaction  *ReactionKind `json:"user_reaction,omitempty"`
	UserLiked     bool          `json:"user_liked"`
	IsSaved       bool          `json:"is_saved"`
	SavedAt       Timestamp     `json:"saved_at"`
	Collection    string        `json:"collection,omitempty"`
}

// CoverImage returns the first attached image, if any.
func (p Post) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// PostDetail is the GET /posts/{id} payload: the post plus its top-level comments.
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
}

// Comment is a single reply on a post.
type Comment struct {
	ID           int64     `json:"id"`
	Author       User      `json:"author"`
	Content      string    `json:"content"`
	Image        string    `json:"image,omitempty"`
	IsEdited     bool      `json:"is_edited"`
	CreatedAt    Timestamp `json:"created_at"`
	LikesCount   int       `json:"likes_count"`
	RepliesCount int       `json:"replies_count"`
}

// Story is an ephemeral media or text item.
type Story struct {
	ID              int64     `json:"id"`
	MediaType       string    `json:"media_type"`
	MediaURL        string    `json:"media_url,omitempty"`
	Text            string    `json:"text,omitempty"`
	BackgroundColor string    `json:"background_color,omitempty"`
	CreatedAt       Timestamp `json:"created_at"`
	ExpiresAt       Timestamp `json:"expires_at"`
	ViewsCount      int       `json:"views_count"`
}

// StoryGroup bundles the active stories of one author in server order.
type StoryGroup struct {
	User    User    `json:"user"`
	Stories []Story `json:"stories"`
}

// Lead returns the first story of the group, which the story strip links to.
func (g StoryGroup) Lead() (Story, bool) {
	if len(g.Stories) == 0 {
		return Story{}, false
	}
	return g.Stories[0], true
}

// FriendRequest is a pending friendship addressed to the current user.
type FriendRequest struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	CreatedAt Timestamp `json:"created_at"`
}

// Notification is the domain notification entity, distinct from transient toasts.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt Timestamp `json:"created_at"`
	Sender    *User     `json:"sender,omitempty"`
}

// LastMessage summarises the newest message of a conversation.
type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
	IsOwn     bool      `json:"is_own"`
}

// Conversation pairs a counterpart with the latest exchanged message.
type Conversation struct {
	User        User        `json:"user"`
	LastMessage LastMessage `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

// Message is one entry of a direct-message thread.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  Timestamp `json:"created_at"`
}

// IncomingMessage is the payload pushed with the new_message event.
type IncomingMessage struct {
	ID        int64     `json:"id"`
	Sender    User      `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// FeedPage is one page of GET /feed.
type FeedPage struct {
	Posts       []Post `json:"posts"`
	Total       int    `json:"total"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"current_page"`
	HasNext     bool   `json:"has_next"`
	HasPrev     bool   `json:"has_prev"`
}

// SearchResults carries the optional people and posts sections of GET /search.
type SearchResults struct {
	Users []User `json:"users,omitempty"`
	Posts []Post `json:"posts,omitempty"`
}

// Empty reports whether neither section has any hits.
func (r SearchResults) Empty() bool {
	return len(r.Users) == 0 && len(r.Posts) == 0
}

// ServerStatus is the GET /status health payload of the API.
type ServerStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Privacy levels accepted by POST /posts.
const (
	PrivacyPublic  = "public"
	PrivacyFriends = "friends"
	PrivacyPrivate = "private"
)
