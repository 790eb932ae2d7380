package sarvam

// Translation request defaults.
const (
	DefaultSourceLanguage = "en-IN"
	DefaultTargetLanguage = "kn-IN"
	DefaultSpeakerGender  = "Female"
	DefaultMode           = "formal"
	DefaultOutputScript   = "roman"
	DefaultNumerals       = "international"
)

// Text-to-speech voice parameters.
const (
	defaultSpeaker    = "arvind"
	defaultTTSModel   = "bulbul:v1"
	defaultMTModel    = "mayura:v1"
	defaultPitch      = 0
	defaultPace       = 1.0
	defaultLoudness   = 1.0
	defaultSampleRate = 22050
)

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Input               string `json:"input"`
	SourceLanguageCode  string `json:"source_language_code"`
	TargetLanguageCode  string `json:"target_language_code"`
	SpeakerGender       string `json:"speaker_gender,omitempty"`
	Mode                string `json:"mode,omitempty"`
	Model               string `json:"model,omitempty"`
	EnablePreprocessing bool   `json:"enable_preprocessing"`
	OutputScript        string `json:"output_script,omitempty"`
	NumeralsFormat      string `json:"numerals_format,omitempty"`
}

// WithDefaults fills every empty field with the value the web client
// expects. Input is left alone.
func (r TranslateRequest) WithDefaults(model string) TranslateRequest {
	if model == "" {
		model = defaultMTModel
	}
	setDefault(&r.SourceLanguageCode, DefaultSourceLanguage)
	setDefault(&r.TargetLanguageCode, DefaultTargetLanguage)
	setDefault(&r.SpeakerGender, DefaultSpeakerGender)
	setDefault(&r.Mode, DefaultMode)
	setDefault(&r.Model, model)
	setDefault(&r.OutputScript, DefaultOutputScript)
	setDefault(&r.NumeralsFormat, DefaultNumerals)
	return r
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// ttsRequest is the body of POST /text-to-speech.
type ttsRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Pitch               float64  `json:"pitch"`
	Pace                float64  `json:"pace"`
	Loudness            float64  `json:"loudness"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	Model               string   `json:"model"`
}
