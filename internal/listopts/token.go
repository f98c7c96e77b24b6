package listopts

import (
	"encoding/base64"
	"encoding/json"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
)

// tokenPayload is the JSON shape encoded into a page token: the
// decoded Cursor plus a round-trip copy of the options the cursor was
// issued under, per the original ListOperationNextPageToken message
// (field_offset, id_offset/listed_ids, set_options). The real system
// serializes this as a protobuf before base64-encoding it; nothing
// downstream of this package interprets the token's bytes, so a
// self-describing JSON encoding preserves the same opacity-to-clients
// contract without hand-rolling a wire-compatible protobuf codec.
type tokenPayload struct {
	FieldOffset int64        `json:"field_offset"`
	IDOffset    int64        `json:"id_offset,omitempty"`
	HasIDOffset bool         `json:"has_id_offset,omitempty"`
	ListedIDs   []int64      `json:"listed_ids,omitempty"`
	SetOptions  tokenOptions `json:"set_options"`
}

type tokenOptions struct {
	MaxResultSize int  `json:"max_result_size"`
	OrderBy       int  `json:"order_by_field"`
	IsAsc         bool `json:"is_asc"`
}

// EncodeToken serializes cursor and the options it was issued under
// into a URL-safe base64 page token.
func EncodeToken(opts Options, cursor Cursor) (string, error) {
	payload := tokenPayload{
		FieldOffset: cursor.FieldOffset,
		IDOffset:    cursor.IDOffset,
		HasIDOffset: cursor.HasIDOffset,
		ListedIDs:   cursor.ListedIDs,
		SetOptions: tokenOptions{
			MaxResultSize: opts.MaxResultSize,
			OrderBy:       int(opts.OrderBy),
			IsAsc:         opts.IsAsc,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", mlmderr.Internalf("listopts.EncodeToken", "marshal token: %v", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeToken parses token and validates that the options it was
// issued under exactly match requestOpts — a drift between the two
// (the caller changed page size, sort field, or direction mid-scan)
// is InvalidArgument per spec §4.4.
func DecodeToken(token string, requestOpts Options) (Cursor, error) {
	raw, err := base64.URLEncoding.WithPadding(base64.StdPadding).DecodeString(token)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(token)
	}
	if err != nil {
		return Cursor{}, mlmderr.InvalidArgumentf("listopts.DecodeToken", "malformed page token: %v", err)
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Cursor{}, mlmderr.InvalidArgumentf("listopts.DecodeToken", "malformed page token: %v", err)
	}

	want := tokenOptions{
		MaxResultSize: requestOpts.MaxResultSize,
		OrderBy:       int(requestOpts.OrderBy),
		IsAsc:         requestOpts.IsAsc,
	}
	if payload.SetOptions != want {
		return Cursor{}, mlmderr.InvalidArgumentf("listopts.DecodeToken", "page token was issued under different options")
	}

	return Cursor{
		FieldOffset: payload.FieldOffset,
		IDOffset:    payload.IDOffset,
		HasIDOffset: payload.HasIDOffset,
		ListedIDs:   payload.ListedIDs,
	}, nil
}
