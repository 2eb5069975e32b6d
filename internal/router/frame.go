package router

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseFrame extracts the notification carried by a raw frame.
//
// It returns ok=false with a nil error for well-formed frames whose method is
// not channelMessage. Frames that are not JSON objects, or channelMessage
// frames without a channel, return ErrMalformedFrame.
func ParseFrame(data []byte) (Notification, bool, error) {
	var env frameEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Notification{}, false, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Method != MethodChannelMessage {
		return Notification{}, false, nil
	}

	var params notificationParams
	if len(env.Params) == 0 || !isObject(env.Params) {
		return Notification{}, false, fmt.Errorf("%w: params is not an object", ErrMalformedFrame)
	}
	if err := json.Unmarshal(env.Params, &params); err != nil {
		return Notification{}, false, fmt.Errorf("%w: params: %v", ErrMalformedFrame, err)
	}
	if params.Channel == nil {
		return Notification{}, false, fmt.Errorf("%w: missing params.channel", ErrMalformedFrame)
	}

	return Notification{
		Channel: *params.Channel,
		Message: params.Message,
	}, true, nil
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

func isArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}
