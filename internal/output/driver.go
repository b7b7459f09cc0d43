// Package output drives the answer indicators through the sysfs GPIO interface.
package output

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/poller"
	"golang-quizlink/internal/port"

	"github.com/sirupsen/logrus"
)

// Observer is notified with the number of lit outputs after every change.
type Observer interface {
	ObserveOutputs(lit int)
}

// Config maps answer codes to GPIO lines and sets how long answers stay lit.
type Config struct {
	Pins             map[string]int
	GPIORoot         string
	SingleDuration   time.Duration
	MultipleDuration time.Duration
}

// Driver lights the outputs for the current answers. It is not safe for
// concurrent use; the serve loop owns it.
type Driver struct {
	cfg      Config
	codes    []string
	fileMgr  port.FileManager
	observer Observer
	logger   *logrus.Entry

	lit      map[string]bool
	shownID  string
	deadline time.Time
}

// NewDriver creates a driver. Answer codes are matched case-insensitively.
func NewDriver(cfg Config, fileMgr port.FileManager) *Driver {
	pins := make(map[string]int, len(cfg.Pins))
	codes := make([]string, 0, len(cfg.Pins))
	for code, line := range cfg.Pins {
		code = strings.ToUpper(code)
		pins[code] = line
		codes = append(codes, code)
	}
	sort.Strings(codes)
	cfg.Pins = pins

	return &Driver{
		cfg:     cfg,
		codes:   codes,
		fileMgr: fileMgr,
		logger:  logging.WithComponent("output"),
		lit:     make(map[string]bool, len(codes)),
	}
}

// WithObserver attaches an observer and returns the driver for chaining.
func (d *Driver) WithObserver(o Observer) *Driver {
	d.observer = o
	return d
}

// Init exports every configured line, makes it an output and turns it off.
func (d *Driver) Init() error {
	for _, code := range d.codes {
		line := d.cfg.Pins[code]
		if !d.fileMgr.FileExists(d.linePath(line, "")) {
			if err := d.fileMgr.WriteFile(filepath.Join(d.cfg.GPIORoot, "export"), []byte(strconv.Itoa(line)), 0200); err != nil {
				return fmt.Errorf("failed to export gpio%d for answer %s: %w", line, code, err)
			}
		}
		if err := d.fileMgr.WriteFile(d.linePath(line, "direction"), []byte("out"), 0644); err != nil {
			return fmt.Errorf("failed to set gpio%d direction: %w", line, err)
		}
		if err := d.writeLine(code, false); err != nil {
			return err
		}
		d.logger.WithFields(logrus.Fields{"answer": code, "gpio": line}).Debug("Output initialized")
	}
	return nil
}

// Show lights the outputs for resp's answers until the display duration of its
// type elapses. Showing the question that is already shown keeps the first
// deadline. An inactive or nil response turns every output off.
func (d *Driver) Show(resp *poller.Response, now time.Time) error {
	if resp == nil || !resp.Active {
		d.shownID = ""
		d.deadline = time.Time{}
		return d.apply(nil)
	}
	if resp.QuestionID != "" && resp.QuestionID == d.shownID {
		return nil
	}

	want := make(map[string]bool, len(resp.Answers))
	for _, answer := range resp.Answers {
		code := strings.ToUpper(strings.TrimSpace(answer))
		if _, ok := d.cfg.Pins[code]; !ok {
			d.logger.WithField("answer", answer).Warn("Ignoring unknown answer code")
			continue
		}
		want[code] = true
	}

	d.shownID = resp.QuestionID
	d.deadline = now.Add(d.duration(resp.Type))
	d.logger.WithFields(logrus.Fields{
		"question_id": resp.QuestionID,
		"type":        resp.Type,
		"until":       d.deadline.Format(time.TimeOnly),
	}).Info("Showing answers")
	return d.apply(want)
}

// Refresh turns the outputs off once the display deadline has passed.
func (d *Driver) Refresh(now time.Time) error {
	if d.deadline.IsZero() || now.Before(d.deadline) {
		return nil
	}
	d.deadline = time.Time{}
	d.logger.WithField("question_id", d.shownID).Debug("Display time elapsed")
	return d.apply(nil)
}

// Clear turns every output off unconditionally and forgets the shown question.
func (d *Driver) Clear() error {
	d.shownID = ""
	d.deadline = time.Time{}

	var firstErr error
	for _, code := range d.codes {
		if err := d.writeLine(code, false); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.notify()
	return firstErr
}

// Lit returns the answer codes currently on, sorted.
func (d *Driver) Lit() []string {
	lit := make([]string, 0, len(d.lit))
	for _, code := range d.codes {
		if d.lit[code] {
			lit = append(lit, code)
		}
	}
	return lit
}

func (d *Driver) duration(kind string) time.Duration {
	switch kind {
	case poller.TypeMultiple:
		return d.cfg.MultipleDuration
	case poller.TypeSingle:
		return d.cfg.SingleDuration
	default:
		d.logger.WithField("type", kind).Warn("Unknown question type, using single duration")
		return d.cfg.SingleDuration
	}
}

// apply writes only the lines whose state changes.
func (d *Driver) apply(want map[string]bool) error {
	var firstErr error
	for _, code := range d.codes {
		if d.lit[code] == want[code] {
			continue
		}
		if err := d.writeLine(code, want[code]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.notify()
	return firstErr
}

func (d *Driver) writeLine(code string, on bool) error {
	line := d.cfg.Pins[code]
	value := []byte("0")
	if on {
		value = []byte("1")
	}
	if err := d.fileMgr.WriteFile(d.linePath(line, "value"), value, 0644); err != nil {
		return fmt.Errorf("failed to set gpio%d for answer %s: %w", line, code, err)
	}
	d.lit[code] = on
	return nil
}

func (d *Driver) linePath(line int, attr string) string {
	return filepath.Join(d.cfg.GPIORoot, fmt.Sprintf("gpio%d", line), attr)
}

func (d *Driver) notify() {
	if d.observer != nil {
		d.observer.ObserveOutputs(len(d.Lit()))
	}
}
