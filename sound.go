package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
)

// Cue names, looked up as <name>.ogg in the sounds directory.
const (
	soundRunSaved    = "run_saved"
	soundSessionFull = "session_full"
)

// soundBank holds decoded audio cues. Audio is entirely optional: a
// missing directory, missing files or a failed speaker init all leave
// an empty bank whose Play is a no-op.
type soundBank struct {
	buffers     map[string]*beep.Buffer
	speakerLock sync.Mutex
}

// loadSounds decodes the known cues from dir. Never fails; problems are
// logged and the affected cue stays silent.
func loadSounds(dir string, log *slog.Logger) *soundBank {
	b := &soundBank{buffers: make(map[string]*beep.Buffer)}
	if dir == "" {
		return b
	}
	if _, err := os.Stat(dir); err != nil {
		log.Debug("sounds_dir_missing", "dir", dir)
		return b
	}

	if err := speaker.Init(44100, 44100/10); err != nil {
		log.Warn("audio_disabled", "err", err)
		return b
	}

	for _, name := range []string{soundRunSaved, soundSessionFull} {
		path := filepath.Join(dir, name+".ogg")
		f, err := os.Open(path)
		if err != nil {
			log.Debug("sound_missing", "path", path)
			continue
		}
		streamer, format, err := vorbis.Decode(f)
		if err != nil {
			log.Warn("sound_decode_failed", "path", path, "err", err)
			f.Close()
			continue
		}
		buffer := beep.NewBuffer(format)
		buffer.Append(streamer)
		b.buffers[name] = buffer
		streamer.Close()
		f.Close()
		log.Info("sound_loaded", "path", path)
	}
	return b
}

// Play plays a cue if it was loaded. Safe on a nil bank.
func (b *soundBank) Play(name string) {
	if b == nil {
		return
	}
	buf, ok := b.buffers[name]
	if !ok {
		return
	}
	b.speakerLock.Lock()
	defer b.speakerLock.Unlock()
	speaker.Play(buf.Streamer(0, buf.Len()))
}
