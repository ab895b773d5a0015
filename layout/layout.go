// Package layout builds codec message layouts from TOML descriptions.
//
// A layout lists its fields in wire order:
//
//	name = "share_control_header"
//
//	[[field]]
//	name = "total_length"
//	kind = "u16le"
//
//	[[field]]
//	name = "pdu_type"
//	kind = "u16le"
//	value = 0x17
//	check = true
//
//	[[field]]
//	name = "source"
//	kind = "string"
//	length = 4
//
// Each call to Build returns a fresh *codec.Composite, since a field tree serves
// a single encode or decode pass.
package layout

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	codec "github.com/oy3o/fieldcodec"
)

var (
	ErrUnknownKind     = errors.New("layout: unknown field kind")
	ErrMissingName     = errors.New("layout: missing name")
	ErrUndecodedKeys   = errors.New("layout: unknown keys")
	ErrInvalidField    = errors.New("layout: invalid field")
	ErrDuplicateLayout = errors.New("layout: duplicate layout")
	ErrUnknownLayout   = errors.New("layout: unknown layout")
)

// Field describes one member of a layout.
type Field struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
	// Value is the constant of a scalar kind.
	Value *int64 `toml:"value"`
	// Text is the initial value of a string kind.
	Text *string `toml:"text"`
	// Length is the placeholder length of a string kind without Text,
	// or the byte count of a pad. 0 on a string reads to the end of the frame.
	Length int `toml:"length"`
	// Check wraps the field so decoding asserts its value.
	Check bool `toml:"check"`
	// Align and Fields apply to the composite kind.
	Align  int     `toml:"align"`
	Fields []Field `toml:"field"`
}

// Layout is a named, ordered message description.
type Layout struct {
	Name   string  `toml:"name"`
	Align  int     `toml:"align"`
	Fields []Field `toml:"field"`
}

// Parse decodes a layout from TOML text.
func Parse(data string) (*Layout, error) {
	var l Layout
	meta, err := toml.Decode(data, &l)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return finish(&l, meta)
}

// Load decodes a layout from a TOML file.
func Load(path string) (*Layout, error) {
	var l Layout
	meta, err := toml.DecodeFile(path, &l)
	if err != nil {
		return nil, fmt.Errorf("load layout %s: %w", path, err)
	}
	return finish(&l, meta)
}

func finish(l *Layout, meta toml.MetaData) (*Layout, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUndecodedKeys, strings.Join(keys, ", "))
	}
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return nil, ErrMissingName
	}
	// Build once so a malformed layout is rejected at load time, not on first use.
	if _, err := l.Build(); err != nil {
		return nil, err
	}
	return l, nil
}

// Build returns a new Composite holding the layout's fields in declaration order.
func (l *Layout) Build() (*codec.Composite, error) {
	return buildComposite(l.Name, l.Align, l.Fields)
}

func buildComposite(name string, align int, fields []Field) (*codec.Composite, error) {
	if align > 1 && align&(align-1) != 0 {
		return nil, fmt.Errorf("%w: %s: align %d is not a power of two", ErrInvalidField, name, align)
	}
	c := codec.NewComposite().WithAlignment(align)
	seen := make(map[string]bool, len(fields))
	for _, fd := range fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("%w: field of %s", ErrMissingName, name)
		}
		if seen[fd.Name] {
			return nil, fmt.Errorf("%w: %s.%s declared twice", ErrInvalidField, name, fd.Name)
		}
		seen[fd.Name] = true
		f, err := build(fd)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, fd.Name, err)
		}
		c.Add(fd.Name, f)
	}
	return c, nil
}

// kinds lists the supported field kinds.
var kinds = []string{
	"u8", "s8",
	"u16be", "u16le", "s16be", "s16le",
	"u24be", "u24le",
	"u32be", "u32le", "s32be", "s32le",
	"string", "unistring", "pad", "composite",
}

// Kinds returns the supported field kinds.
func Kinds() []string { return slices.Clone(kinds) }

func build(fd Field) (codec.Field, error) {
	switch strings.ToLower(strings.TrimSpace(fd.Kind)) {
	case "u8":
		return scalar[codec.U8](fd)
	case "s8":
		return scalar[codec.S8](fd)
	case "u16be":
		return scalar[codec.U16BE](fd)
	case "u16le":
		return scalar[codec.U16LE](fd)
	case "s16be":
		return scalar[codec.S16BE](fd)
	case "s16le":
		return scalar[codec.S16LE](fd)
	case "u24be":
		return scalar[codec.U24BE](fd)
	case "u24le":
		return scalar[codec.U24LE](fd)
	case "u32be":
		return scalar[codec.U32BE](fd)
	case "u32le":
		return scalar[codec.U32LE](fd)
	case "s32be":
		return scalar[codec.S32BE](fd)
	case "s32le":
		return scalar[codec.S32LE](fd)
	case "string":
		return byteString(fd)
	case "unistring":
		return wideString(fd)
	case "pad":
		return pad(fd)
	case "composite":
		return composite(fd)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, fd.Kind)
}

func scalar[F codec.Format](fd Field) (codec.Field, error) {
	var v int64
	if fd.Value != nil {
		v = *fd.Value
	}
	x, err := codec.New[F](v)
	if err != nil {
		return nil, err
	}
	if fd.Check {
		return codec.CheckValueOnRead[int64](x), nil
	}
	return x, nil
}

func initialText(fd Field) string {
	if fd.Text != nil {
		return *fd.Text
	}
	return strings.Repeat("\x00", fd.Length)
}

func byteString(fd Field) (codec.Field, error) {
	if fd.Length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidField, fd.Length)
	}
	s := codec.NewString(initialText(fd))
	if fd.Check {
		return codec.CheckValueOnRead[string](s), nil
	}
	return s, nil
}

func wideString(fd Field) (codec.Field, error) {
	if fd.Length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidField, fd.Length)
	}
	s := codec.NewUniString(initialText(fd))
	if fd.Check {
		return codec.CheckValueOnRead[string](s), nil
	}
	return s, nil
}

func pad(fd Field) (codec.Field, error) {
	if fd.Length <= 0 {
		return nil, fmt.Errorf("%w: pad needs a positive length", ErrInvalidField)
	}
	return codec.NewPad(fd.Length), nil
}

func composite(fd Field) (codec.Field, error) {
	if fd.Check {
		return nil, fmt.Errorf("%w: check is not supported on composites", ErrInvalidField)
	}
	return buildComposite(fd.Name, fd.Align, fd.Fields)
}
