package domain

import "strings"

const audioBaseURL = "https://media.merriam-webster.com/audio/prons/en/us/mp3"

// AudioURL builds the playback URL for a dictionary audio base filename.
func AudioURL(audio string) string {
	return audioBaseURL + "/" + audioSubdir(audio) + "/" + audio + ".mp3"
}

func audioSubdir(audio string) string {
	switch {
	case strings.HasPrefix(audio, "bix"):
		return "bix"
	case strings.HasPrefix(audio, "gg"):
		return "gg"
	case audio == "" || !isASCIILetter(audio[0]):
		return "number"
	}
	return audio[:1]
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
