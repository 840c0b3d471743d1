package svn

import "strings"

const redacted = "****"

// Argument is one `--key value` option passed to svn info.
type Argument struct {
	Key   string
	Value string
}

// Arguments is an ordered set of options. Entries with an empty value are
// never rendered onto the command line.
type Arguments []Argument

// Set adds key or replaces its value in place, keeping its position.
func (a *Arguments) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Argument{Key: key, Value: value})
}

// Get returns the value stored for key.
func (a Arguments) Get(key string) (string, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return "", false
}

// Render returns the argv fragment for the non-empty entries, in order.
func (a Arguments) Render() []string {
	out := make([]string, 0, len(a)*2)
	for _, arg := range a {
		if arg.Value == "" {
			continue
		}
		out = append(out, "--"+arg.Key, arg.Value)
	}
	return out
}

// Redacted is Render with secret values masked, for logging.
func (a Arguments) Redacted() []string {
	out := a.Render()
	for i := 0; i+1 < len(out); i += 2 {
		if out[i] == "--password" {
			out[i+1] = redacted
		}
	}
	return out
}

// Credentials are passed through to svn untouched.
type Credentials struct {
	Username string
	Password string
}

// Arguments converts c into username, password options.
func (c Credentials) Arguments() Arguments {
	var args Arguments
	args.Set("username", c.Username)
	args.Set("password", c.Password)
	return args
}

// CommandLine builds the arguments that follow the executable:
// info <path> [--key value]...
func CommandLine(path string, args Arguments) []string {
	return append([]string{"info", targetPath(path)}, args.Render()...)
}

// targetPath keeps svn from reading path as anything but a path. A trailing
// "@" pins an empty peg revision so an "@" inside the name is literal, and a
// leading "-" is hidden behind "./".
func targetPath(path string) string {
	if strings.HasPrefix(path, "-") {
		path = "./" + path
	}
	if strings.Contains(path, "@") {
		path += "@"
	}
	return path
}
