package gemini

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/fwojciec/murmur"
	"google.golang.org/genai"
)

// Synthesize speaks req.Text with a prebuilt voice and returns WAV audio.
// req.Format is ignored: the speech models only produce PCM.
func (c *Client) Synthesize(ctx context.Context, req murmur.SpeechRequest) (murmur.Audio, error) {
	if strings.TrimSpace(req.Text) == "" {
		return murmur.Audio{}, fmt.Errorf("gemini: speech text must not be empty: %w", murmur.ErrValidation)
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Text}}}}
	resp, err := c.generate(ctx, c.speechModel, contents, c.speechConfig(req.Voice))
	if err != nil {
		return murmur.Audio{}, fmt.Errorf("gemini: %w", err)
	}

	blob := firstBlob(resp)
	if blob == nil || len(blob.Data) == 0 {
		return murmur.Audio{}, fmt.Errorf("gemini: response carried no audio")
	}
	return murmur.Audio{
		Data:        WAV(blob.Data, SampleRate(blob.MIMEType)),
		ContentType: "audio/wav",
	}, nil
}

func (c *Client) speechConfig(voice string) *genai.GenerateContentConfig {
	if !voices[voice] {
		voice = c.voice
	}
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
}

// Transcribe sends the recording inline with a transcription instruction
// and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio murmur.Audio, _ string) (string, error) {
	if audio.Len() == 0 {
		return "", nil
	}
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/webm"
	}
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: transcribePrompt},
			{InlineData: &genai.Blob{MIMEType: contentType, Data: audio.Data}},
		},
	}}
	resp, err := c.generate(ctx, c.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return strings.TrimSpace(responseText(resp)), nil
}

func firstBlob(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil {
			return p.InlineData
		}
	}
	return nil
}

// SampleRate extracts the rate parameter from a PCM MIME type such as
// "audio/L16;codec=pcm;rate=24000", defaulting to 24 kHz.
func SampleRate(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return defaultSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return defaultSampleRate
	}
	return rate
}

// WAV wraps 16-bit little-endian mono PCM in a canonical 44-byte RIFF
// header.
func WAV(pcm []byte, sampleRate int) []byte {
	const headerSize = 44
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(headerSize + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(headerSize-8+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16)) // fmt chunk size
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
