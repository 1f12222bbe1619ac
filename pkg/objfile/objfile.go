// Package objfile implements the binary object-file format of spec.md
// §9 ("Serialised closures"): rather than marshalling in-memory
// closures (non-portable), a compiled module's symbols, their types,
// and their rule lists are persisted in the representation the term
// kernel already canonicalised them to (de Bruijn indices), and
// relinked purely by (module, name) lookup on load.
//
// Modeled on Consensys-go-corset/pkg/binfile/binfile.go's
// BinaryFile{Header, Attributes, Schema}: a small hand-rolled versioned
// header followed by a gob-encoded payload, rather than a bespoke
// bit-packed layout.
package objfile

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/vito/piccolo/pkg/symtab"
)

func init() {
	for _, t := range compiledTerms() {
		gob.Register(t)
	}
}

// Magic identifies a piccolo object file, the way go-corset's ZKBINARY
// identifier distinguishes its binary files from corrupted input.
var Magic = [8]byte{'P', 'I', 'C', 'C', 'O', 'L', 'O', 0}

// MajorVersion/MinorVersion follow go-corset's compatibility rule:
// readers accept any minor version at or below their own, and reject
// any other major version outright.
const (
	MajorVersion uint16 = 1
	MinorVersion uint16 = 0
)

// Header is the fixed-layout prefix of every object file.
type Header struct {
	Magic        [8]byte
	MajorVersion uint16
	MinorVersion uint16
}

// MarshalBinary writes Header in its fixed wire layout, independent of
// gob, so the magic bytes can be checked before anything is decoded.
func (h *Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	var versions [4]byte
	binary.BigEndian.PutUint16(versions[0:2], h.MajorVersion)
	binary.BigEndian.PutUint16(versions[2:4], h.MinorVersion)
	buf.Write(h.Magic[:])
	buf.Write(versions[:])
	return buf.Bytes(), nil
}

// UnmarshalBinary reads Header from the front of buf, leaving the
// remainder for the gob payload.
func (h *Header) UnmarshalBinary(buf *bytes.Buffer) error {
	if n, err := buf.Read(h.Magic[:]); err != nil || n != len(h.Magic) {
		return errors.New("objfile: truncated header")
	}
	var versions [4]byte
	if n, err := buf.Read(versions[:]); err != nil || n != len(versions) {
		return errors.New("objfile: truncated header")
	}
	h.MajorVersion = binary.BigEndian.Uint16(versions[0:2])
	h.MinorVersion = binary.BigEndian.Uint16(versions[2:4])
	return nil
}

// IsCompatible reports whether this build can read a file with header h.
func (h *Header) IsCompatible() bool {
	return h.Magic == Magic && h.MajorVersion == MajorVersion && h.MinorVersion <= MinorVersion
}

// CompiledModule is the gob payload: every exported field of
// symtab.Module plus its cross-module rule table, which is otherwise
// unexported and so would silently vanish under a direct gob encoding
// of *symtab.Module (§9's "Cross-module rule attachment" invariant
// depends on this surviving a round trip).
type CompiledModule struct {
	Name             string
	Requires         []string
	Symbols          map[string]*symtab.Symbol
	CrossModuleRules []*symtab.Rule
}

func fromModule(m *symtab.Module) *CompiledModule {
	return &CompiledModule{
		Name:             m.Name,
		Requires:         m.Requires,
		Symbols:          m.Symbols,
		CrossModuleRules: m.CrossModuleRules(),
	}
}

func (c *CompiledModule) toModule() *symtab.Module {
	m := symtab.NewModule(c.Name)
	m.Requires = c.Requires
	if c.Symbols != nil {
		m.Symbols = c.Symbols
	}
	m.SetCrossModuleRules(c.CrossModuleRules)
	return m
}

// Encode serialises a module to its binary object-file representation.
func Encode(m *symtab.Module) ([]byte, error) {
	header := Header{Magic: Magic, MajorVersion: MajorVersion, MinorVersion: MinorVersion}
	headerBytes, err := header.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(headerBytes)
	if err := gob.NewEncoder(&buf).Encode(fromModule(m)); err != nil {
		return nil, fmt.Errorf("objfile: encoding %s: %w", m.Name, err)
	}
	return buf.Bytes(), nil
}

// Decode deserialises a module previously written by Encode. The
// returned module's Requires and cross-module rules are exactly as
// they were at encode time; re-attaching those rules to their home
// symbols is the loader's job (symtab.Universe.ReplayCrossModuleRules),
// not this package's.
func Decode(data []byte) (*symtab.Module, error) {
	buf := bytes.NewBuffer(data)
	var header Header
	if err := header.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	if !header.IsCompatible() {
		return nil, fmt.Errorf("objfile: incompatible object file v%d.%d (this build reads v%d.%d)",
			header.MajorVersion, header.MinorVersion, MajorVersion, MinorVersion)
	}

	var compiled CompiledModule
	if err := gob.NewDecoder(buf).Decode(&compiled); err != nil {
		return nil, fmt.Errorf("objfile: decoding: %w", err)
	}
	return compiled.toModule(), nil
}

// Filename derives the canonical on-disk object-file name for a module
// path, the way a build tool derives an output path from a logical
// package name.
func Filename(modulePath string) string {
	return strcase.ToSnake(modulePath) + ".pco"
}
