package client

import "github.com/Anilsharma012/myProperty-sub000/internal/proto"

// Identity is what the identity service hands the client: who to authenticate
// as on every channel.
type Identity struct {
	UserID   string
	Token    string
	UserType string
}

func (id Identity) authPayload() proto.Inbound {
	return proto.Inbound{
		Type:     proto.InboundTypeAuth,
		UserID:   id.UserID,
		Token:    id.Token,
		UserType: id.UserType,
	}
}
