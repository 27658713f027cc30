package content

import (
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/sinwaunyu/site/internal/airtable"
	"github.com/sinwaunyu/site/pkg/api"
)

var attachmentsType = reflect.TypeOf([]api.Attachment(nil))

// attachmentHook lets attachment columns be filled from either an Airtable
// attachment list or a plain URL string.
func attachmentHook(from, to reflect.Type, data any) (any, error) {
	if to != attachmentsType {
		return data, nil
	}
	as := airtable.Attachments(data)
	out := make([]api.Attachment, 0, len(as))
	for _, a := range as {
		out = append(out, api.Attachment{URL: a.URL, Filename: a.Filename, Size: a.Size, Type: a.Type})
	}
	return out, nil
}

// decodeFields copies an Airtable field map into out. Unknown columns are
// ignored and numbers are converted to the target field type.
func decodeFields(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(attachmentHook),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

func decodeNews(r airtable.Record) (api.News, error) {
	var n api.News
	if err := decodeFields(r.Fields, &n); err != nil {
		return api.News{}, err
	}
	n.ID = r.ID
	n.CreatedTime = r.CreatedTime
	return n, nil
}

func decodeRecruit(r airtable.Record) (api.Recruit, error) {
	var out api.Recruit
	if err := decodeFields(r.Fields, &out); err != nil {
		return api.Recruit{}, err
	}
	out.ID = r.ID
	return out, nil
}

func decodeVehicle(r airtable.Record) (api.Vehicle, error) {
	var out api.Vehicle
	if err := decodeFields(r.Fields, &out); err != nil {
		return api.Vehicle{}, err
	}
	out.ID = r.ID
	return out, nil
}

func decodeCompany(r airtable.Record) (api.Company, error) {
	var out api.Company
	if err := decodeFields(r.Fields, &out); err != nil {
		return api.Company{}, err
	}
	out.ID = r.ID
	return out, nil
}

func decodeContact(r airtable.Record) (api.Contact, error) {
	var out api.Contact
	if err := decodeFields(r.Fields, &out); err != nil {
		return api.Contact{}, err
	}
	out.ID = r.ID
	return out, nil
}
