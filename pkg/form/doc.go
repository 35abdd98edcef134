// Package form resolves raw request input into typed values.
//
// A form is declared with an explicit Schema: an ordered list of fields, each
// with a kind, a required flag and optional validator rules. Resolve checks a
// JSON body against the schema and ResolveQuery does the same for query
// parameters. Both aggregate every violation into a single
// *goerror.ValidationError, ordered like the schema declaration, so a client
// can fix all problems in one round trip.
//
//	var contactForm = form.NewSchema("ContactForm",
//		form.String("sender_name").Required().Rules("max=100"),
//		form.String("sender_email").Required().Rules("email"),
//		form.Int("priority").Default(int64(1)),
//	)
//
//	in, err := form.Resolve[ContactInput](resolver, body, contactForm)
//
// Input keys may use the declared name or its lowerCamel spelling, the one
// envelopes use on the wire. The echoed JSON schema lists the lowerCamel
// names, while error locations keep the declared names.
//
// An invalid schema is a programming error: it is reported as ErrInvalidSchema
// and never as a validation failure.
package form
