package convsvc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/rsakey/keyerr"
	"xdao.co/rsakey/storage"
)

const (
	errorDomain        = "rsakey"
	storageErrorDomain = "rsakey.storage"
)

var storageReasons = []struct {
	err    error
	reason string
	code   codes.Code
}{
	{storage.ErrNotFound, "NOT_FOUND", codes.NotFound},
	{storage.ErrInvalidKeyID, "INVALID_KEY_ID", codes.InvalidArgument},
	{storage.ErrKeyIDMismatch, "KEY_ID_MISMATCH", codes.DataLoss},
	{storage.ErrImmutable, "IMMUTABLE", codes.FailedPrecondition},
	{storage.ErrNotSPKI, "NOT_SPKI", codes.InvalidArgument},
}

// toStatus converts a library error into a gRPC status error. Structured
// errors keep their Kind, RuleID, Label and Schema in an ErrorInfo detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var e *keyerr.Error
	if errors.As(err, &e) {
		code := codes.InvalidArgument
		if e.Kind == keyerr.KindInternal {
			code = codes.Internal
		}
		return withInfo(status.New(code, e.Error()), &errdetails.ErrorInfo{
			Reason: e.RuleID,
			Domain: errorDomain,
			Metadata: map[string]string{
				"kind":    string(e.Kind),
				"label":   e.Label,
				"schema":  e.Schema,
				"message": e.Message,
			},
		})
	}
	for _, r := range storageReasons {
		if errors.Is(err, r.err) {
			return withInfo(status.New(r.code, err.Error()), &errdetails.ErrorInfo{
				Reason: r.reason,
				Domain: storageErrorDomain,
			})
		}
	}
	return status.Error(codes.Internal, err.Error())
}

func withInfo(st *status.Status, info *errdetails.ErrorInfo) error {
	detailed, err := st.WithDetails(info)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// fromStatus rebuilds a *keyerr.Error or storage sentinel from a status
// produced by toStatus. Other errors are returned unchanged.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok {
			continue
		}
		switch info.GetDomain() {
		case errorDomain:
			md := info.GetMetadata()
			return &keyerr.Error{
				Kind:    keyerr.Kind(md["kind"]),
				RuleID:  info.GetReason(),
				Label:   md["label"],
				Schema:  md["schema"],
				Message: md["message"],
			}
		case storageErrorDomain:
			for _, r := range storageReasons {
				if r.reason == info.GetReason() {
					return r.err
				}
			}
		}
	}

	// Best-effort for servers that do not attach details.
	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.DataLoss:
		return storage.ErrKeyIDMismatch
	default:
		return err
	}
}
