// Package batch emits a DOS VIEW.BAT script that drives Prodigy Classic's
// Reception System through every matching object in a STAGE.DAT, one
// CONFIG.SM swap and RS relaunch per object.
//
// Grounded on Batcher/Config in original_source/viewer.py. Lines are
// joined with CRLF, matching Python's `open(..., newline='\r\n')` — a DOS
// batch file with bare LF line endings is not reliably readable by the
// target OS.
package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/retrohex/prodigydat/internal/stage/records"
)

// Option is one CONFIG.SM line: a bare key, or a key:value pair.
type Option struct {
	Key   string
	Value string
	HasValue bool
}

// Config accumulates the CONFIG.SM options written into CONFIG.$$$.
type Config struct {
	Options []Option
}

// AddOption appends a bare key.
func (c *Config) AddOption(key string) {
	c.Options = append(c.Options, Option{Key: key})
}

// AddKeyValue appends a key:value pair.
func (c *Config) AddKeyValue(key, value string) {
	c.Options = append(c.Options, Option{Key: key, Value: value, HasValue: true})
}

// AddList parses a "key[:value]" list the way --option arguments arrive
// from the CLI, splitting on sep.
func (c *Config) AddList(opts []string, sep string) {
	for _, o := range opts {
		k, v, found := strings.Cut(o, sep)
		if found {
			c.AddKeyValue(k, v)
		} else {
			c.AddOption(k)
		}
	}
}

// Batcher writes a VIEW.BAT-style script. Source is the invocation
// recorded in the header comment (mirrors `' '.join(sys.argv)`).
type Batcher struct {
	w       io.Writer
	Source  string
	Config  Config
	Prompt  bool
	Expert  bool
	Quiet   bool
	count   int
}

// New wraps w and writes the header immediately, mirroring Batcher's
// context-manager __enter__.
func New(w io.Writer, source string, config Config, prompt, expert, quiet bool) (*Batcher, error) {
	b := &Batcher{w: w, Source: source, Config: config, Prompt: prompt, Expert: expert, Quiet: quiet}
	if err := b.writeHeader(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Batcher) line(format string, args ...any) error {
	_, err := fmt.Fprintf(b.w, format+"\r\n", args...)
	return err
}

func (b *Batcher) blank() error { return b.line("") }

func (b *Batcher) writeHeader() error {
	lines := []func() error{
		func() error { return b.line("@ECHO OFF") },
		b.blank,
		func() error { return b.line("REM  This file was automatically generated with: ") },
		func() error { return b.line("REM    %s", b.Source) },
		b.blank,
		func() error { return b.line("REM  Make a feeble attempt to keep people from overwriting") },
		func() error { return b.line("REM  their legitimate CONFIG.SM file.") },
		func() error { return b.line("RENAME CONFIG.SM CONFIG.BCK > NUL") },
		b.blank,
		func() error { return b.line("REM  Just in case you forgot to check it first ...") },
		func() error { return b.line("COPY OBJECTS.LOG OBJECTS.OLD > NUL") },
		func() error { return b.line("ECHO Objects shown: > OBJECTS.LOG") },
		b.blank,
	}
	for _, fn := range lines {
		if err := fn(); err != nil {
			return err
		}
	}

	if err := b.writeConfig(); err != nil {
		return err
	}

	if err := b.line("CLS"); err != nil {
		return err
	}

	if b.Prompt && !(b.Expert || b.Quiet) {
		for _, s := range []string{
			"ECHO Pressing Y at the Continue prompt will load the object.",
			"ECHO Pressing N at the Continue prompt will exit.",
			"ECHO Pressing S at the Continue prompt will skip to the next object.",
			"ECHO.",
		} {
			if err := b.line("%s", s); err != nil {
				return err
			}
		}
		if err := b.blank(); err != nil {
			return err
		}
	}

	if err := b.line(`IF NOT "%%1"=="" GOTO OBJ%%1`); err != nil {
		return err
	}
	if err := b.blank(); err != nil {
		return err
	}

	if !(b.Expert || b.Quiet) {
		for _, s := range []string{
			"ECHO If it hangs, OBJECTS.LOG contains a list of objects viewed. Specify a ",
			"ECHO number on the command line to jump to that object or one beyond it.",
			"ECHO.",
		} {
			if err := b.line("%s", s); err != nil {
				return err
			}
		}
		if !b.Prompt {
			if err := b.line("PAUSE"); err != nil {
				return err
			}
		}
		if err := b.blank(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batcher) writeConfig() error {
	if err := b.line("REM  Build base configuration file"); err != nil {
		return err
	}
	if err := b.line("ECHO ; config file for use with %s > CONFIG.$$$", b.Source); err != nil {
		return err
	}
	for _, opt := range b.Config.Options {
		if opt.HasValue {
			if err := b.line("ECHO %s:%s >> CONFIG.$$$", opt.Key, opt.Value); err != nil {
				return err
			}
		} else {
			if err := b.line("ECHO %s >> CONFIG.$$$", opt.Key); err != nil {
				return err
			}
		}
	}
	return b.blank()
}

// AddObject appends the batch fragment that loads one object, labeled by
// id. Objects are numbered sequentially starting at 1.
func (b *Batcher) AddObject(id records.ObjectID) error {
	name := id.DisplayName('.', 0)
	fullName := fmt.Sprintf("%s %#x %#x", name, id.Location, id.Type)
	if len(name) < 12 {
		name += "1"
	}

	b.count++
	count := b.count

	if err := b.line(":OBJ%d", count); err != nil {
		return err
	}
	if !b.Quiet {
		if err := b.line("ECHO %4d - %s", count, fullName); err != nil {
			return err
		}
	}
	if b.Prompt {
		if err := b.line("CHOICE /C:YNS Continue"); err != nil {
			return err
		}
		if err := b.line("ECHO."); err != nil {
			return err
		}
		if err := b.line("IF ERRORLEVEL == 3 GOTO SKIP%d", count); err != nil {
			return err
		}
		if err := b.line("IF ERRORLEVEL == 2 GOTO END"); err != nil {
			return err
		}
	}

	if err := b.line("COPY CONFIG.$$$ CONFIG.SM > NUL"); err != nil {
		return err
	}
	if err := b.line("ECHO object:%s >> CONFIG.SM", name); err != nil {
		return err
	}
	if err := b.line("ECHO %4d - %s >> OBJECTS.LOG", count, fullName); err != nil {
		return err
	}
	if err := b.line("RS"); err != nil {
		return err
	}
	if !b.Quiet {
		if err := b.line("ECHO ** That was %d - %s", count, fullName); err != nil {
			return err
		}
	}
	if b.Prompt {
		if err := b.line(":SKIP%d", count); err != nil {
			return err
		}
	}
	if !b.Quiet {
		if err := b.line("ECHO."); err != nil {
			return err
		}
	}
	return b.blank()
}

// Close writes the trailer. It does not close the underlying writer.
func (b *Batcher) Close() error {
	if err := b.blank(); err != nil {
		return err
	}
	if err := b.line(":END"); err != nil {
		return err
	}
	if err := b.line("DEL CONFIG.$$$ > NUL"); err != nil {
		return err
	}
	if err := b.line("DEL CONFIG.SM > NUL"); err != nil {
		return err
	}
	if err := b.line("RENAME CONFIG.BCK CONFIG.SM > NUL"); err != nil {
		return err
	}
	if !b.Quiet {
		if err := b.line("ECHO DONE"); err != nil {
			return err
		}
	}
	return b.blank()
}
