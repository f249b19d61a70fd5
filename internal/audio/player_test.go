package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: "0:00"},
		{name: "sub-second floors to zero", d: 900 * time.Millisecond, want: "0:00"},
		{name: "seconds are zero-padded", d: 7 * time.Second, want: "0:07"},
		{name: "minute boundary", d: 60 * time.Second, want: "1:00"},
		{name: "minutes and seconds", d: 3*time.Minute + 21*time.Second, want: "3:21"},
		{name: "more than ten minutes", d: 12*time.Minute + 5*time.Second, want: "12:05"},
		{name: "invalid duration renders as zero", d: -time.Second, want: "0:00"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.want, FormatDuration(testCase.d))
		})
	}
}

func TestClampSeek(t *testing.T) {
	testCases := []struct {
		name             string
		position, length int
		want             int
	}{
		{name: "within range", position: 5, length: 10, want: 5},
		{name: "negative clamps to start", position: -3, length: 10, want: 0},
		{name: "past the end clamps to end", position: 15, length: 10, want: 10},
		{name: "unknown length clamps to start", position: 5, length: 0, want: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.want, clampSeek(testCase.position, testCase.length))
		})
	}
}

func TestDetectFormat(t *testing.T) {
	wavHeader := append([]byte("RIFF"), 0, 0, 0, 0)
	wavHeader = append(wavHeader, []byte("WAVE")...)

	testCases := []struct {
		name string
		data []byte
		want payloadFormat
	}{
		{name: "wav riff header", data: wavHeader, want: payloadWAV},
		{name: "mp3 id3 tag", data: []byte("ID3\x04\x00"), want: payloadMP3},
		{name: "mp3 frame sync", data: []byte{0xFF, 0xFB, 0x90, 0x00}, want: payloadMP3},
		{name: "empty payload", data: nil, want: payloadUnknown},
		{name: "garbage", data: []byte("not audio at all"), want: payloadUnknown},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.want, detectFormat(testCase.data))
		})
	}
}
