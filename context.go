package caliper

// Context is the JSON-LD context IRI emitted as "@context". It is carried
// verbatim and never resolved.
type Context string

// DefaultContext is the Caliper 1.1 context.
const DefaultContext Context = "http://purl.imsglobal.org/ctx/caliper/v1p1"

// String returns the context IRI.
func (c Context) String() string {
	return string(c)
}
