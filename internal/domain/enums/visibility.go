package enums

// MessageVisibility selects who may read match messages.
type MessageVisibility string

const (
	VisibilityPrivate MessageVisibility = "private-to-participants"
	VisibilityPublic  MessageVisibility = "public-read"
)

func (v MessageVisibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}
