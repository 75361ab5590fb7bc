package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/errors"
	"github.com/wippyai/rlbridge/marshal"
)

// Envelope layout, matching
//
//	typedef struct ReadLineResult { int error; char *error_message; char *result; } ReadLineResult;
const (
	EnvelopeCodeOffset    rlbridge.Ptr = 0
	EnvelopeMessageOffset rlbridge.Ptr = rlbridge.Ptr(rlbridge.PtrSize)
	EnvelopeResultOffset  rlbridge.Ptr = rlbridge.Ptr(2 * rlbridge.PtrSize)

	EnvelopeSize = 3 * rlbridge.PtrSize
)

// Envelope is a decoded result envelope.
type Envelope struct {
	Code       Code
	Message    string
	Result     string
	HasMessage bool
	HasResult  bool
}

// ReadEnvelope decodes the envelope at ptr without releasing it.
func ReadEnvelope(mem rlbridge.Memory, ptr rlbridge.Ptr) (Envelope, error) {
	var env Envelope
	if ptr == 0 {
		return env, errors.NilPointer(errors.PhaseDecode, []string{"ReadLineResult"}, "ReadLineResult*")
	}
	code, err := mem.ReadI32(ptr + EnvelopeCodeOffset)
	if err != nil {
		return env, err
	}
	env.Code = Code(code)

	msgPtr, err := mem.ReadPtr(ptr + EnvelopeMessageOffset)
	if err != nil {
		return env, err
	}
	if msgPtr != 0 {
		if env.Message, err = marshal.ReadCString(mem, msgPtr, "ReadLineResult", "error_message"); err != nil {
			return env, err
		}
		env.HasMessage = true
	}

	resPtr, err := mem.ReadPtr(ptr + EnvelopeResultOffset)
	if err != nil {
		return env, err
	}
	if resPtr != 0 {
		if env.Result, err = marshal.ReadCString(mem, resPtr, "ReadLineResult", "result"); err != nil {
			return env, err
		}
		env.HasResult = true
	}
	return env, nil
}

// publishLine returns a success envelope carrying line.
func (b *Bridge) publishLine(line string) rlbridge.Ptr {
	res, err := marshal.WriteCString(b.mem, b.alloc, line, "ReadLineResult", "result")
	if err != nil {
		return b.publishError(err)
	}
	return b.publish(CodeOK, 0, res)
}

// publishOK returns a success envelope with no payload.
func (b *Bridge) publishOK() rlbridge.Ptr {
	return b.publish(CodeOK, 0, 0)
}

// publishError returns an error envelope describing err.
func (b *Bridge) publishError(err error) rlbridge.Ptr {
	code, text := classify(err)
	msg, werr := marshal.WriteCString(b.mem, b.alloc, text, "ReadLineResult", "error_message")
	if werr != nil {
		Logger().Error("cannot encode error message", zap.Error(werr))
		return 0
	}
	return b.publish(code, msg, 0)
}

func (b *Bridge) publish(code Code, msg, res rlbridge.Ptr) rlbridge.Ptr {
	env, err := b.alloc.Alloc(EnvelopeSize)
	if err == nil {
		err = b.writeEnvelope(env, code, msg, res)
		if err != nil {
			b.alloc.Free(env)
		}
	}
	if err != nil {
		Logger().Error("cannot allocate envelope", zap.Stringer("code", code), zap.Error(err))
		b.alloc.Free(msg)
		b.alloc.Free(res)
		return 0
	}

	b.envMu.Lock()
	b.envelopes[env] = struct{}{}
	b.envMu.Unlock()
	return env
}

func (b *Bridge) writeEnvelope(env rlbridge.Ptr, code Code, msg, res rlbridge.Ptr) error {
	if err := b.mem.WriteI32(env+EnvelopeCodeOffset, int32(code)); err != nil {
		return err
	}
	if err := b.mem.WritePtr(env+EnvelopeMessageOffset, msg); err != nil {
		return err
	}
	return b.mem.WritePtr(env+EnvelopeResultOffset, res)
}

// ReleaseEnvelope frees an envelope and the strings it owns. The message is
// freed only for error discriminants. Unknown or already released pointers
// are logged and ignored.
func (b *Bridge) ReleaseEnvelope(env rlbridge.Ptr) {
	if env == 0 {
		return
	}
	b.envMu.Lock()
	_, live := b.envelopes[env]
	delete(b.envelopes, env)
	b.envMu.Unlock()
	if !live {
		Logger().Warn("release of unknown envelope", zap.Uintptr("ptr", uintptr(env)))
		return
	}

	code, err := b.mem.ReadI32(env + EnvelopeCodeOffset)
	if err != nil {
		Logger().Error("corrupt envelope", zap.Uintptr("ptr", uintptr(env)), zap.Error(err))
		return
	}
	if Code(code).IsError() {
		if msg, err := b.mem.ReadPtr(env + EnvelopeMessageOffset); err == nil && msg != 0 {
			b.alloc.Free(msg)
		}
	}
	if res, err := b.mem.ReadPtr(env + EnvelopeResultOffset); err == nil && res != 0 {
		b.alloc.Free(res)
	}
	b.alloc.Free(env)
}

// LiveEnvelopes returns the number of envelopes not yet released.
func (b *Bridge) LiveEnvelopes() int {
	b.envMu.Lock()
	defer b.envMu.Unlock()
	return len(b.envelopes)
}
