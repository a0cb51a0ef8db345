package hal

import (
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestWireContextsAreIndirect(t *testing.T) {
	if wireDirect {
		t.Fatalf("wireDirect = true, want false: GL calls travel as GLX render requests")
	}
}

func TestDecodeX11Event(t *testing.T) {
	data8 := make([]byte, 20)
	data8[0] = 0x7f

	tests := []struct {
		name string
		in   xgb.Event
		want Event
	}{
		{
			name: "expose",
			in:   xproto.ExposeEvent{Window: 0x400001, Width: 10, Height: 20},
			want: Event{Kind: EventExpose, Window: 0x400001},
		},
		{
			name: "configure",
			in:   xproto.ConfigureNotifyEvent{Event: 0x400001, Window: 0x400001, Width: 640, Height: 480},
			want: Event{Kind: EventConfigure, Window: 0x400001, Width: 640, Height: 480},
		},
		{
			name: "client message format 32",
			in: xproto.ClientMessageEvent{
				Format: 32,
				Window: 0x400001,
				Type:   0x120,
				Data:   xproto.ClientMessageDataUnionData32New([]uint32{0x1a5, 0, 0, 0, 0}),
			},
			want: Event{Kind: EventClientMessage, Window: 0x400001, Data0: 0x1a5},
		},
		{
			name: "client message format 8",
			in: xproto.ClientMessageEvent{
				Format: 8,
				Window: 0x400001,
				Type:   0x120,
				Data:   xproto.ClientMessageDataUnionData8New(data8),
			},
			want: Event{Kind: EventClientMessage, Window: 0x400001},
		},
		{
			name: "destroy",
			in:   xproto.DestroyNotifyEvent{Event: 0x400001, Window: 0x400001},
			want: Event{Kind: EventDestroy, Window: 0x400001},
		},
		{
			name: "unknown",
			in:   xproto.KeyPressEvent{Event: 0x400001},
			want: Event{Kind: EventOther},
		},
	}
	for _, tt := range tests {
		if got := decodeX11Event(tt.in); got != tt.want {
			t.Fatalf("%s: decodeX11Event() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
