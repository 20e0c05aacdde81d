package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"

	"github.com/mqttlog/mqttlog-go/pkg/feature"
)

// Profile file locations relative to the profile directory.
const (
	XMLFile        = "conf/config.xml"
	PropertiesFile = "mqttMessageLog.properties"
)

// Source identifies where a profile was read from.
type Source uint8

const (
	SourceDefaults Source = iota
	SourceXML
	SourceProperties
	SourceEvents
)

func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceXML:
		return "xml"
	case SourceProperties:
		return "properties"
	case SourceEvents:
		return "events"
	default:
		return "unknown"
	}
}

// LoadProfile resolves the event profile. The XML file in dir wins, then
// the legacy properties file, then events, then the defaults. A file that
// exists but cannot be read falls back to the defaults with a warning.
func LoadProfile(dir string, events map[string]string, logger *slog.Logger) (feature.Profile, Source) {
	if logger == nil {
		logger = slog.Default()
	}

	profile, source := resolveProfile(dir, events, logger)
	logger.Info("Properties initialized to: " + profile.String())
	return profile, source
}

func resolveProfile(dir string, events map[string]string, logger *slog.Logger) (feature.Profile, Source) {
	xmlPath := filepath.Join(dir, XMLFile)
	if exists(xmlPath) {
		logger.Debug("reading profile", slog.String("path", xmlPath))
		values, err := ReadXML(xmlPath)
		if err != nil {
			logger.Warn("could not read configuration file, using defaults",
				slog.String("path", xmlPath), slog.Any("error", err))
			return feature.Default(), SourceDefaults
		}
		return feature.FromMap(values), SourceXML
	}

	propsPath := filepath.Join(dir, PropertiesFile)
	if exists(propsPath) {
		logger.Warn("the configuration file is using the legacy location and format, please move it",
			slog.String("path", propsPath), slog.String("new_path", xmlPath))
		values, err := ReadProperties(propsPath)
		if err != nil {
			logger.Warn("could not load properties file, using defaults",
				slog.String("path", propsPath), slog.Any("error", err))
			return feature.Default(), SourceDefaults
		}
		return feature.FromMap(values), SourceProperties
	}

	if len(events) > 0 {
		return feature.FromMap(events), SourceEvents
	}
	return feature.Default(), SourceDefaults
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

type xmlDocument struct {
	XMLName xml.Name
	Entries []xmlEntry `xml:",any"`
}

type xmlEntry struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// ReadXML reads a profile document. The root element name is ignored;
// each child element is one key.
func ReadXML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	values := make(map[string]string, len(doc.Entries))
	for _, e := range doc.Entries {
		values[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}
	return values, nil
}

// ReadProperties reads a legacy key=value profile file.
func ReadProperties(path string) (map[string]string, error) {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

// CheckProfile returns ErrAllDisabled when p logs nothing.
func CheckProfile(p feature.Profile) error {
	if p.AllDisabled() {
		return ErrAllDisabled
	}
	return nil
}
