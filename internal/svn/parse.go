package svn

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names emitted by `svn info`.
const (
	FieldPath              = "Path"
	FieldURL               = "URL"
	FieldRepositoryRoot    = "Repository Root"
	FieldRepositoryUUID    = "Repository UUID"
	FieldRevision          = "Revision"
	FieldNodeKind          = "Node Kind"
	FieldLastChangedAuthor = "Last Changed Author"
	FieldLastChangedRev    = "Last Changed Rev"
	FieldLastChangedDate   = "Last Changed Date"
)

// infoLine matches one `key: value` line. The key stops at the first colon
// and never spans lines.
var infoLine = regexp.MustCompile(`(?m)^([^:\r\n]*):(.*)$`)

// Info is the parsed report of one svn info invocation.
type Info struct {
	Fields map[string]string
	// Output is the raw captured text the fields were parsed from.
	Output string
}

// ParseInfo splits output into fields. Lines that are not `key: value` are
// skipped and a repeated key keeps its last value.
func ParseInfo(output string) Info {
	fields := make(map[string]string)
	for _, m := range infoLine.FindAllStringSubmatch(output, -1) {
		fields[m[1]] = strings.TrimSpace(m[2])
	}
	return Info{Fields: fields, Output: output}
}

// Lookup returns the value of field.
func (i Info) Lookup(field string) (string, bool) {
	v, ok := i.Fields[field]
	return v, ok
}

// Field returns the value of field or a FieldNotFound error.
func (i Info) Field(field string) (string, error) {
	v, ok := i.Lookup(field)
	if !ok {
		return "", &Error{Kind: FieldNotFound, Field: field, Output: i.Output}
	}
	return v, nil
}

// Int returns field converted to an integer.
func (i Info) Int(field string) (int, error) {
	v, err := i.Field(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &Error{Kind: NumericParseError, Field: field, Value: v, Err: err}
	}
	return n, nil
}
