package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type (
	Channel struct {
		InternalID  primitive.ObjectID `bson:"_id"         json:"-"`
		Name        string             `bson:"name"        json:"name"`
		DisplayName string             `bson:"displayName" json:"displayName"`
		Team        string             `bson:"team"        json:"team,omitempty"`
	}

	Post struct {
		ID        primitive.ObjectID `bson:"_id"`
		ChannelID string             `bson:"channel"`
		RootID    primitive.ObjectID `bson:"rootId,omitempty"`
		ParentID  primitive.ObjectID `bson:"parentId,omitempty"`
		UserID    string             `bson:"userId"`
		Message   string             `bson:"message"`
		CreatedAt time.Time          `bson:"createdAt"`
		EditAt    time.Time          `bson:"editAt,omitempty"`
	}

	PostThread struct {
		Post    Post
		Replies []*PostThread
	}
)

func (p Post) IsEdited() bool {
	return !p.EditAt.IsZero()
}

func (p Post) IsReply() bool {
	return !p.ParentID.IsZero()
}

// PostView is the representation of a post in API responses. Rendered is
// only set if rendering was requested.
type PostView struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	RootID    string    `json:"rootId,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	EditAt    time.Time `json:"editAt"`
	IsEdited  bool      `json:"isEdited"`
	Rendered  any       `json:"rendered,omitempty"`
}

func (p Post) ToView() PostView {
	v := PostView{
		ID:        p.ID.Hex(),
		Channel:   p.ChannelID,
		UserID:    p.UserID,
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
		EditAt:    p.EditAt,
		IsEdited:  p.IsEdited(),
	}

	if !p.RootID.IsZero() {
		v.RootID = p.RootID.Hex()
	}

	if !p.ParentID.IsZero() {
		v.ParentID = p.ParentID.Hex()
	}

	return v
}

type ThreadView struct {
	Post    PostView      `json:"post"`
	Replies []*ThreadView `json:"replies,omitempty"`
}

func (t PostThread) ToView(recurse bool) *ThreadView {
	view := &ThreadView{
		Post: t.Post.ToView(),
	}

	if !recurse {
		return view
	}

	view.Replies = make([]*ThreadView, len(t.Replies))
	for idx, reply := range t.Replies {
		view.Replies[idx] = reply.ToView(recurse)
	}

	return view
}
