package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		audio string
		want  string
	}{
		{audio: "mercur01", want: audioBaseURL + "/m/mercur01.mp3"},
		{audio: "bixdat01", want: audioBaseURL + "/bix/bixdat01.mp3"},
		{audio: "ggwrit01", want: audioBaseURL + "/gg/ggwrit01.mp3"},
		{audio: "3d000001", want: audioBaseURL + "/number/3d000001.mp3"},
		{audio: "_pat0001", want: audioBaseURL + "/number/_pat0001.mp3"},
		{audio: "bi000001", want: audioBaseURL + "/b/bi000001.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.audio, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AudioURL(tt.audio))
		})
	}
}

func TestPronunciation_AudioURL(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Pronunciation{}.AudioURL())

	audio := "heart001"
	got := Pronunciation{Audio: &audio}.AudioURL()
	if assert.NotNil(t, got) {
		assert.Equal(t, audioBaseURL+"/h/heart001.mp3", *got)
	}
}
