// Package reply turns collection results into the reply objects sent to clients.
package reply

import (
	"github.com/hoangnguyenba/webapi/pkg/db"
	"github.com/hoangnguyenba/webapi/pkg/errcode"
)

// Reply is returned by modify and remove. ErrorName is omitted when the name table has no
// entry for the code; the code alone is authoritative.
type Reply struct {
	ErrorCode errcode.Code `json:"errorCode"`
	ErrorName *string      `json:"errorName,omitempty"`
}

// AddReply is returned by add. IDs is only present on success.
type AddReply struct {
	ErrorCode errcode.Code `json:"errorCode"`
	ErrorName *string      `json:"errorName,omitempty"`
	IDs       []int32      `json:"ids,omitempty"`
}

// Mapper resolves error names against a name table loaded at startup.
type Mapper struct {
	names errcode.Names
}

func NewMapper(names errcode.Names) *Mapper {
	return &Mapper{names: names}
}

// Reply builds the reply for code.
func (m *Mapper) Reply(code errcode.Code) Reply {
	return Reply{ErrorCode: code, ErrorName: m.name(code)}
}

func (m *Mapper) FromOutcome(o db.Outcome) Reply {
	return m.Reply(o.Code)
}

func (m *Mapper) FromAddOutcome(o db.Outcome) AddReply {
	r := AddReply{ErrorCode: o.Code, ErrorName: m.name(o.Code)}
	if o.OK() {
		r.IDs = o.IDs
		if r.IDs == nil {
			r.IDs = []int32{}
		}
	}
	return r
}

// FromError builds the reply for err using the code it carries.
func (m *Mapper) FromError(err error) Reply {
	return m.Reply(errcode.Of(err))
}

func (m *Mapper) name(code errcode.Code) *string {
	name, ok := m.names.Lookup(code)
	if !ok {
		return nil
	}
	return &name
}
