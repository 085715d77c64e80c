package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"seeker.klederson.com/internal/platform"
)

// espeakBinaries in order of preference.
var espeakBinaries = []string{"espeak-ng", "espeak"}

const voicesTimeout = 5 * time.Second

// Espeak speaks through the espeak-ng (or espeak) executable.
type Espeak struct {
	path   string
	voices []platform.Voice
}

// NewEspeak locates an espeak binary and lists its voices.
func NewEspeak() (*Espeak, error) {
	var path string
	for _, bin := range espeakBinaries {
		if p, err := exec.LookPath(bin); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return nil, fmt.Errorf("speech: %w: no espeak binary on PATH", platform.ErrUnsupported)
	}

	e := &Espeak{path: path}

	ctx, cancel := context.WithTimeout(context.Background(), voicesTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--voices").Output()
	if err == nil {
		e.voices = parseVoices(strings.NewReader(string(out)))
	}
	return e, nil
}

// Voices returns the voices espeak reported at startup.
func (e *Espeak) Voices() []platform.Voice {
	return e.voices
}

// Speak runs espeak for text and waits for it to finish. Cancelling ctx
// kills the process.
func (e *Espeak) Speak(ctx context.Context, text string, voice platform.Voice) error {
	args := []string{}
	if v := voiceArg(voice); v != "" {
		args = append(args, "-v", v)
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, e.path, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak: %w", err)
	}
	return nil
}

func voiceArg(v platform.Voice) string {
	id := strings.ToLower(v.Language)
	if id == "" {
		return ""
	}
	if strings.EqualFold(v.Gender, "female") {
		return id + "+f3"
	}
	return id
}

// parseVoices reads `espeak --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US     (en 2)
func parseVoices(r io.Reader) []platform.Voice {
	var voices []platform.Voice
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		gender := ""
		if parts := strings.SplitN(fields[2], "/", 2); len(parts) == 2 {
			switch parts[1] {
			case "F":
				gender = "female"
			case "M":
				gender = "male"
			}
		}
		voices = append(voices, platform.Voice{
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Language: fields[1],
			Provider: "espeak",
			Gender:   gender,
			Default:  fields[1] == "en" || fields[1] == "en-us",
		})
	}
	return voices
}
