package common

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// GetEnv looks up a key under its name in env or name+_FILE to read the value
// from a file. fallback will be defaulted to if a value is not found.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	} else if value, ok := os.LookupEnv(key + "_FILE"); ok {
		dat, err := ioutil.ReadFile(filepath.Clean(value))
		if err == nil {
			return string(dat)
		}
	}
	return fallback
}

// GetEnvInt looks up a key under its name in env or name+_FILE to read the
// value from a file. fallback will be defaulted to if a value is not found.
func GetEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		var err error
		var i int
		if i, err = strconv.Atoi(value); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"string": value, "environment_key": key}).Fatal("Failed to convert string to int")
		}
		return i
	} else if value, ok := os.LookupEnv(key + "_FILE"); ok {
		dat, err := ioutil.ReadFile(filepath.Clean(value))
		if err == nil {
			var err error
			var i int
			if i, err = strconv.Atoi(strings.TrimSpace(string(dat))); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{"string": dat, "environment_key": key}).Fatal("Failed to convert string to int")
			}
			return i
		}
	}
	return fallback
}

// GetEnvInt64 is GetEnvInt for 64 bit values, e.g. seeds.
func GetEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"string": value, "environment_key": key}).Fatal("Failed to convert string to int64")
		}
		return i
	} else if value, ok := os.LookupEnv(key + "_FILE"); ok {
		dat, err := ioutil.ReadFile(filepath.Clean(value))
		if err == nil {
			i, err := strconv.ParseInt(strings.TrimSpace(string(dat)), 10, 64)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{"string": dat, "environment_key": key}).Fatal("Failed to convert string to int64")
			}
			return i
		}
	}
	return fallback
}

// GetEnvDuration looks up a key under its name in env or name+_FILE to read
// the value from a file. fallback will be defaulted to if a value is not
// found. if an integer is provided, the value will be returned in seconds
// (value * time.Second)
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	res := fallback
	if tmp := os.Getenv(key); tmp != "" {
		res = parseDuration(key, tmp, fallback)
	} else if value, ok := os.LookupEnv(key + "_FILE"); ok {
		dat, err := ioutil.ReadFile(filepath.Clean(value))
		if err == nil {
			res = parseDuration(key, strings.TrimSpace(string(dat)), fallback)
		}
	}
	return res
}

func parseDuration(key, value string, fallback time.Duration) time.Duration {
	if i, err := strconv.Atoi(value); err == nil {
		return time.Duration(i) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"string": value, "environment_key": key}).Fatal("Failed to parse duration")
		return fallback
	}
	return d
}
