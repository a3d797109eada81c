package out

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	sensorout "deskwatch/internal/modules/sensor/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// SerialSource reads newline-framed sensor output from a serial device.
// mu guards the port handle for reads and reconnects only; it is never held
// together with the tracker's slot lock, so a stalled device read cannot
// block session queries.
type SerialSource struct {
	mu        sync.Mutex
	portName  string
	baud      int
	vendorIDs []string
	log       hclog.Logger

	port   serial.Port
	reader *bufio.Reader
}

func NewSerialSource(portName string, baud int, vendorIDs []string, log hclog.Logger) sensorout.LineSource {
	if baud <= 0 {
		baud = 9600
	}
	return &SerialSource{portName: portName, baud: baud, vendorIDs: vendorIDs, log: log}
}

func (s *SerialSource) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return nil
	}
	name := s.portName
	if name == "" {
		discovered, err := s.discover()
		if err != nil {
			return err
		}
		name = discovered
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: s.baud})
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", name, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		s.log.Debug("reset input buffer", "error", err)
	}
	s.port = port
	s.reader = bufio.NewReader(port)
	s.log.Info("serial port open", "port", name, "baud", s.baud)
	return nil
}

func (s *SerialSource) ReadLine(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == nil {
		return "", fmt.Errorf("serial port is not open")
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read serial line: %w", err)
	}
	// Undecodable bytes are skippable noise, not a transport fault.
	if !utf8.ValidString(line) {
		s.log.Debug("discarding non-utf8 serial data")
		return "", nil
	}
	return line, nil
}

func (s *SerialSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.reader = nil
	return err
}

// discover scans attached ports for a known vendor id, or an "Arduino"
// product string as a fallback. Caller holds mu.
func (s *SerialSource) discover() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate serial ports: %w", err)
	}
	for _, p := range ports {
		if p.IsUSB && s.knownVendor(p.VID) {
			s.log.Info("discovered sensor port", "port", p.Name, "vid", p.VID)
			return p.Name, nil
		}
	}
	for _, p := range ports {
		if strings.Contains(p.Product, "Arduino") {
			s.log.Info("discovered sensor port by product", "port", p.Name, "product", p.Product)
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("no sensor device found among %d ports", len(ports))
}

func (s *SerialSource) knownVendor(vid string) bool {
	for _, known := range s.vendorIDs {
		if strings.EqualFold(vid, known) {
			return true
		}
	}
	return false
}
