package mailparse

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// Property ids of interest, per MS-OXPROPS.
const (
	propSubject     = 0x0037
	propSenderName  = 0x0C1A
	propSenderEmail = 0x0C1F
	propSenderSMTP  = 0x5D01
	propBody        = 0x1000
)

// Property stream value types.
const (
	typeUnicode = 0x001F
	typeString8 = 0x001E
)

// MSGDecoder reads the Outlook .msg compound-file container. String
// properties live in streams named __substg1.0_<id><type> at the message
// root; recipient, attachment and named-property storages are skipped.
type MSGDecoder struct{}

func NewMSGDecoder() *MSGDecoder { return &MSGDecoder{} }

func (d *MSGDecoder) Decode(ctx context.Context, data []byte) (domain.ParsedMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ParsedMessage{}, err
	}

	// The CFB reader needs random access; the upload is materialized to a
	// scratch file removed on every exit path.
	scratch, err := os.CreateTemp("", "upload-*.msg")
	if err != nil {
		return domain.ParsedMessage{}, fmt.Errorf("create scratch file: %w", err)
	}
	defer func() {
		scratch.Close()
		os.Remove(scratch.Name())
	}()

	if _, err := scratch.Write(data); err != nil {
		return domain.ParsedMessage{}, fmt.Errorf("write scratch file: %w", err)
	}

	doc, err := mscfb.New(scratch)
	if err != nil {
		return domain.ParsedMessage{}, domain.WrapError(domain.ErrMalformedContainer, "open msg container", err)
	}

	props := map[uint16]string{}
	for entry, nextErr := doc.Next(); nextErr != io.EOF; entry, nextErr = doc.Next() {
		if nextErr != nil {
			return domain.ParsedMessage{}, domain.WrapError(domain.ErrMalformedContainer, "walk msg container", nextErr)
		}
		id, typ, ok := propertyStream(entry.Name)
		if !ok || nestedEntry(entry.Path) || !wantedProperty(id) {
			continue
		}
		if _, seen := props[id]; seen {
			continue
		}

		raw, err := io.ReadAll(entry)
		if err != nil {
			return domain.ParsedMessage{}, domain.WrapError(domain.ErrMalformedContainer, "read msg property stream", err)
		}
		switch typ {
		case typeUnicode:
			props[id] = strings.TrimRight(decodeUTF16LE(raw), "\x00")
		case typeString8:
			props[id] = strings.TrimRight(string(raw), "\x00")
		}
	}

	addr := props[propSenderSMTP]
	if addr == "" {
		addr = props[propSenderEmail]
	}
	return domain.ParsedMessage{
		Sender:  formatSender(props[propSenderName], addr),
		Subject: props[propSubject],
		Body:    props[propBody],
	}, nil
}

// propertyStream splits a __substg1.0_XXXXYYYY stream name into property id
// and value type.
func propertyStream(name string) (id, typ uint16, ok bool) {
	const prefix = "__substg1.0_"
	if !strings.HasPrefix(name, prefix) || len(name) != len(prefix)+8 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(name[len(prefix):], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint16(v >> 16), uint16(v), true
}

func wantedProperty(id uint16) bool {
	switch id {
	case propSubject, propSenderName, propSenderEmail, propSenderSMTP, propBody:
		return true
	default:
		return false
	}
}

// nestedEntry reports whether the stream belongs to a recipient, attachment
// or named-property storage rather than the message itself.
func nestedEntry(path []string) bool {
	for _, p := range path {
		if strings.HasPrefix(p, "__recip") || strings.HasPrefix(p, "__attach") || strings.HasPrefix(p, "__nameid") {
			return true
		}
	}
	return false
}

func decodeUTF16LE(b []byte) string {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return string(utf16.Decode(u))
}

func formatSender(name, addr string) string {
	name = strings.TrimSpace(name)
	addr = strings.TrimSpace(addr)
	switch {
	case name != "" && addr != "" && !strings.EqualFold(name, addr):
		return fmt.Sprintf("%s <%s>", name, addr)
	case addr != "":
		return addr
	default:
		return name
	}
}
