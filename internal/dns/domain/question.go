package domain

// Question is a single entry in a DNS message's question section: what is
// being asked, not an answer to it.
type Question struct {
	Name  string // dotted, lower-cased domain name, no trailing dot
	Type  RRType
	Class RRClass
}

// NewQuestion builds a Question, defaulting Class to IN when zero is passed
// (the wire value 0 is never a valid class, so this is unambiguous).
func NewQuestion(name string, qtype RRType, class RRClass) Question {
	if class == 0 {
		class = RRClassIN
	}
	return Question{Name: name, Type: qtype, Class: class}
}
