package config

import "os"

func IsDebug() bool {
	return os.Getenv("DISCO_DEBUG") == "1"
}
