package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Fields are the values available to a storage-key template.
type Fields struct {
	ShortPrompt string
	Prompt      string
	N           int
	Round       int
	Model       string
	Size        string
	Quality     string
	Created     int64
	UUID        string
}

func (f Fields) lookup(name string) (any, bool) {
	switch name {
	case "short_prompt":
		return f.ShortPrompt, true
	case "prompt":
		return f.Prompt, true
	case "n":
		return f.N, true
	case "round":
		return f.Round, true
	case "model":
		return f.Model, true
	case "size":
		return f.Size, true
	case "quality":
		return f.Quality, true
	case "created":
		return f.Created, true
	case "uuid":
		return f.UUID, true
	}
	return nil, false
}

// Render substitutes {field} and {field:spec} placeholders. "{{" and "}}" are
// literal braces. The spec is a fmt verb without the leading '%', for example
// {n:03d}; anything fmt rejects, such as {n:>3}, is an error.
func Render(tmpl string, f Fields) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed '{' at offset %d in %q", i, tmpl)
			}
			s, err := expand(tmpl[i+1:i+1+end], f)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' at offset %d in %q", i, tmpl)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Key renders tmpl and flattens it so it never creates nested storage paths.
func Key(tmpl string, f Fields) (string, error) {
	s, err := Render(tmpl, f)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(s, "/", "_"), nil
}

func expand(field string, f Fields) (string, error) {
	name, spec, _ := strings.Cut(field, ":")
	v, ok := f.lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown template field %q", name)
	}
	if spec == "" {
		return fmt.Sprint(v), nil
	}
	if !unicode.IsLetter(rune(spec[len(spec)-1])) {
		spec += "v"
	}
	s := fmt.Sprintf("%"+spec, v)
	if strings.Contains(s, "%!") {
		return "", fmt.Errorf("invalid format %q for template field %q", spec, name)
	}
	return s, nil
}
