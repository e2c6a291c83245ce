package http

import (
	"encoding/json"

	"github.com/hoshizora/wishcannon-server/internal/core"
	"github.com/hoshizora/wishcannon-server/internal/proto"
)

func inboundToLaunch(inbound proto.Inbound) (*core.Launch, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeLaunch:
		var data proto.LaunchData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}

		launch := &core.Launch{Text: data.Text}
		if data.Angle != nil {
			launch.Angle = *data.Angle
		}
		if data.Location != nil {
			launch.Location = &core.Location{
				Latitude:  data.Location.Latitude,
				Longitude: data.Location.Longitude,
			}
		}
		return launch, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventInitialize:
		entries := make([]proto.StarEntry, 0, len(event.Stars))
		for _, star := range event.Stars {
			entries = append(entries, proto.StarEntry{
				Word:  star.Word,
				Count: star.Count,
			})
		}
		return proto.Outbound{
			Type: proto.OutboundTypeInitialize,
			Data: entries,
		}
	case core.EventBroadcast:
		data := proto.BroadcastData{
			Text:  event.Star.Text,
			Angle: event.Star.Angle,
			Lumen: event.Star.Lumen,
		}
		if event.Star.Location != nil {
			data.Location = &proto.Location{
				Latitude:  event.Star.Location.Latitude,
				Longitude: event.Star.Location.Longitude,
			}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeBroadcast,
			Data: data,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}
