package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/pbkdf2"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a cluster-unique int64 identifier.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a cluster-unique string identifier.
func UUID() string {
	return snowflakeNode.Generate().String()
}

// GetSecretSalt reads the password salt from the environment, falling back
// to a fixed development value.
func GetSecretSalt() string {
	if salt, ok := os.LookupEnv("PRODORDER_SECRET_SALT"); ok && salt != "" {
		return salt
	}
	return "prodorder-default-salt"
}

// Sha256HashWithSalt derives a hex-encoded hash for credential storage.
func Sha256HashWithSalt(value string, salt string) string {
	key := pbkdf2.Key([]byte(value), []byte(salt), 4096, sha256.Size, sha256.New)
	return hex.EncodeToString(key)
}

// RandomString returns an alphanumeric secret of length n.
func RandomString(n uint8) string {
	return random.String(n, random.Alphanumeric)
}
