package marshal

import (
	"strings"
	"unicode/utf8"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/errors"
)

// ReadCString copies the NUL-terminated string at ptr into a Go string.
func ReadCString(mem rlbridge.Memory, ptr rlbridge.Ptr, path ...string) (string, error) {
	if ptr == 0 {
		return "", errors.NilPointer(errors.PhaseDecode, path, "const char*")
	}
	n, err := mem.StrLen(ptr)
	if err != nil {
		return "", errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "unterminated string")
	}
	if n == 0 {
		return "", nil
	}
	data, err := mem.Read(ptr, n)
	if err != nil {
		return "", errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read string")
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, path, data)
	}
	return string(data), nil
}

// WriteCString allocates len(s)+1 bytes and stores s with a NUL terminator.
// The returned pointer must be freed with alloc.
func WriteCString(mem rlbridge.Memory, alloc rlbridge.Allocator, s string, path ...string) (rlbridge.Ptr, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return 0, errors.EmbeddedNUL(errors.PhaseEncode, path, i)
	}
	ptr, err := alloc.Alloc(len(s) + 1)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindAllocation, err, "allocate string")
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	if err := mem.Write(ptr, buf); err != nil {
		alloc.Free(ptr)
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write string")
	}
	return ptr, nil
}

// TakeCString copies the string at ptr and frees ptr with alloc, whatever the
// outcome of decoding. A NULL ptr yields ok == false and no error.
func TakeCString(mem rlbridge.Memory, alloc rlbridge.Allocator, ptr rlbridge.Ptr, path ...string) (s string, ok bool, err error) {
	if ptr == 0 {
		return "", false, nil
	}
	defer alloc.Free(ptr)
	s, err = ReadCString(mem, ptr, path...)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
