package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

var ErrMissingBaseURL = errors.New("backend.baseurl must be configured")

type Application struct {
	Backend Backend `koanf:"backend"`
	Auth    Auth    `koanf:"auth"`
	Session Session `koanf:"session"`
	Server  Server  `koanf:"server"`
	Sync    Sync    `koanf:"sync"`
	Export  Export  `koanf:"export"`
}

type Backend struct {
	BaseURL      string        `koanf:"baseurl"`
	Timeout      time.Duration `koanf:"timeout"`
	RegisterPath string        `koanf:"registerpath"`
}

type Auth struct {
	// AdoptOnRegister stores the token returned by a successful registration
	// as the live session. When false the user has to log in explicitly.
	AdoptOnRegister bool `koanf:"adoptonregister"`
}

type Session struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
	Key     string `koanf:"key"`
	Redis   Redis  `koanf:"redis"`
}

type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Sync struct {
	// Schedule is an optional cron spec ("@every 5m", "*/15 * * * *").
	Schedule string `koanf:"schedule"`
}

type Export struct {
	Dir string `koanf:"dir"`
}

func Defaults() Application {
	return Application{
		Backend: Backend{
			RegisterPath: "/register",
		},
		Session: Session{
			Backend: "file",
			Path:    "./var/session.json",
			Key:     "access_token",
			Redis: Redis{
				Addr: "localhost:6379",
			},
		},
		Server: Server{
			Addr: ":8282",
		},
		Export: Export{
			Dir: "./exports",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CLEANCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CLEANCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	app.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(app.Backend.BaseURL), "/")
	if app.Backend.BaseURL == "" {
		return Application{}, ErrMissingBaseURL
	}

	return app, nil
}
