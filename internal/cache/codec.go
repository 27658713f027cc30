package cache

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sinwaunyu/site/internal/airtable"
)

// encodeResult serialises a list page as a protobuf Struct. Field values
// are JSON-shaped, so they map onto structpb without loss.
func encodeResult(res airtable.ListResult) ([]byte, error) {
	records := make([]any, 0, len(res.Records))
	for _, r := range res.Records {
		created := ""
		if !r.CreatedTime.IsZero() {
			created = r.CreatedTime.UTC().Format(time.RFC3339Nano)
		}
		fields := r.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		records = append(records, map[string]any{
			"id":          r.ID,
			"createdTime": created,
			"fields":      fields,
		})
	}
	st, err := structpb.NewStruct(map[string]any{
		"records": records,
		"offset":  res.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: encode: %w", err)
	}
	return proto.Marshal(st)
}

func decodeResult(b []byte) (airtable.ListResult, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return airtable.ListResult{}, fmt.Errorf("cache: decode: %w", err)
	}
	m := st.AsMap()
	out := airtable.ListResult{}
	out.Offset, _ = m["offset"].(string)
	list, _ := m["records"].([]any)
	for _, item := range list {
		rm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := airtable.Record{}
		r.ID, _ = rm["id"].(string)
		if s, _ := rm["createdTime"].(string); s != "" {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				r.CreatedTime = t
			}
		}
		r.Fields, _ = rm["fields"].(map[string]any)
		out.Records = append(out.Records, r)
	}
	return out, nil
}
