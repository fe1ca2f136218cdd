package project

import (
	"fmt"
	"time"

	"github.com/ncobase/scanpage/paging"
)

// Selector kinds as written into tokens. These strings are part of the
// token format; do not rename them.
const (
	kindName      = "name"
	kindMtimeName = "mtime_name"
)

// selectorPayload is the wire form of a PageSelector.
type selectorPayload struct {
	Kind  string       `json:"k"`
	Order paging.Order `json:"o"`
	Mtime *int64       `json:"t,omitempty"`
	Name  *string      `json:"n"`
}

// SelectorCodec encodes page selectors as paging tokens.
type SelectorCodec struct{}

// Encode implements paging.Codec.
func (SelectorCodec) Encode(selector PageSelector) (string, error) {
	if selector == nil || !selector.Order().Valid() {
		return "", fmt.Errorf("cannot encode page selector %v", selector)
	}

	var p selectorPayload
	switch s := selector.(type) {
	case NameSelector:
		p = selectorPayload{Kind: kindName, Order: s.Dir, Name: &s.Name}
	case MtimeNameSelector:
		if err := CheckMtime(s.Mtime); err != nil {
			return "", err
		}
		nanos := s.Mtime.UnixNano()
		p = selectorPayload{Kind: kindMtimeName, Order: s.Dir, Mtime: &nanos, Name: &s.Name}
	default:
		return "", fmt.Errorf("cannot encode page selector %T", selector)
	}
	return paging.EncodeToken(p)
}

// Decode implements paging.Codec. It checks structure only; whether the
// selector belongs to a declared scan mode is decided by the Registry.
func (SelectorCodec) Decode(token string) (PageSelector, error) {
	var p selectorPayload
	if err := paging.DecodeToken(token, &p); err != nil {
		return nil, err
	}
	if !p.Order.Valid() {
		return nil, fmt.Errorf("%w: invalid order %q", paging.ErrMalformedToken, p.Order)
	}
	if p.Name == nil {
		return nil, fmt.Errorf("%w: missing name", paging.ErrMalformedToken)
	}

	switch p.Kind {
	case kindName:
		if p.Mtime != nil {
			return nil, fmt.Errorf("%w: unexpected mtime in name selector", paging.ErrMalformedToken)
		}
		return NameSelector{Dir: p.Order, Name: *p.Name}, nil
	case kindMtimeName:
		if p.Mtime == nil {
			return nil, fmt.Errorf("%w: missing mtime", paging.ErrMalformedToken)
		}
		return NewMtimeNameSelector(p.Order, time.Unix(0, *p.Mtime), *p.Name), nil
	}
	return nil, fmt.Errorf("%w: unknown selector kind %q", paging.ErrMalformedToken, p.Kind)
}
