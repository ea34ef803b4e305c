package chain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// Well known object spaces and types.
const (
	ProtocolSpace uint8 = 1

	AccountType  uint8 = 2
	AssetType    uint8 = 3
	ContractType uint8 = 14
)

// ObjectID addresses an on-chain object as space.type.instance. Only the
// instance goes on the wire; space and type are implied by the field.
type ObjectID struct {
	Space    uint8
	Type     uint8
	Instance uint64
}

// AccountID returns 1.2.instance.
func AccountID(instance uint64) ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: AccountType, Instance: instance}
}

// AssetID returns 1.3.instance.
func AssetID(instance uint64) ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: AssetType, Instance: instance}
}

// ContractID returns 1.14.instance.
func ContractID(instance uint64) ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: ContractType, Instance: instance}
}

// ParseObjectID parses "space.type.instance".
func ParseObjectID(s string) (ObjectID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return ObjectID{}, &fault.FormatError{
			Code:     fault.ErrInvalidObjectID,
			Message:  fmt.Sprintf("object id %q must have three dot separated parts", s),
			Position: -1,
		}
	}

	space, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return ObjectID{}, objectIDError(s, "space", err)
	}
	typ, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return ObjectID{}, objectIDError(s, "type", err)
	}
	instance, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return ObjectID{}, objectIDError(s, "instance", err)
	}

	return ObjectID{Space: uint8(space), Type: uint8(typ), Instance: instance}, nil
}

// MustParseObjectID is ParseObjectID for literals known to be valid.
func MustParseObjectID(s string) ObjectID {
	id, err := ParseObjectID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func objectIDError(s, part string, cause error) error {
	return &fault.FormatError{
		Code:     fault.ErrInvalidObjectID,
		Message:  fmt.Sprintf("object id %q has invalid %s", s, part),
		Position: -1,
		Cause:    cause,
	}
}

// Is reports whether id lives in the given space and type.
func (id ObjectID) Is(space, typ uint8) bool {
	return id.Space == space && id.Type == typ
}

// IsAccount reports whether id is 1.2.x.
func (id ObjectID) IsAccount() bool {
	return id.Is(ProtocolSpace, AccountType)
}

// IsAsset reports whether id is 1.3.x.
func (id ObjectID) IsAsset() bool {
	return id.Is(ProtocolSpace, AssetType)
}

func (id ObjectID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Space, id.Type, id.Instance)
}

// Bytes returns the wire form: the varint instance.
func (id ObjectID) Bytes() []byte {
	return AppendVarint(nil, id.Instance)
}

// MarshalText implements encoding.TextMarshaler.
func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
