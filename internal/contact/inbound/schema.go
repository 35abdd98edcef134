package inbound

import "github.com/shandysiswandi/gocle/pkg/form"

var (
	submitMessageSchema = form.NewSchema("ContactMessageForm",
		form.String("sender_name").Required().Rules("min=1,max=100,alphaspace").Describe("Name of the person writing"),
		form.String("sender_email").Required().Rules("email").Describe("Address replies are sent to"),
		form.String("subject").Rules("max=150"),
		form.String("body").Required().Rules("min=1,max=5000"),
	)

	listMessagesSchema = form.NewSchema("ListMessagesQuery",
		form.Int("page").Rules("min=1,max=100000").Default(1),
		form.Int("page_size").Rules("min=1,max=100").Default(10),
	)
)

// Schemas lists the forms used by the endpoints so they can be checked at
// startup.
func Schemas() []*form.Schema {
	return []*form.Schema{submitMessageSchema, listMessagesSchema}
}
