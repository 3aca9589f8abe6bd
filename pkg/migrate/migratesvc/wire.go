package migratesvc

import (
	"encoding/json"
	"time"
)

const defaultTimeout = 5 * time.Second

func encodeRequest(req Request) ([]byte, error)   { return json.Marshal(req) }
func decodeRequest(data []byte, req *Request) error { return json.Unmarshal(data, req) }

func encodeResponse(resp Response) ([]byte, error)    { return json.Marshal(resp) }
func decodeResponse(data []byte, resp *Response) error { return json.Unmarshal(data, resp) }
