package mysql

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	v := viper.New()
	v.Set("database.username", "carpool")
	v.Set("database.password", "s3cret")
	v.Set("database.host", "db")
	v.Set("database.port", 3306)
	v.Set("database.name", "carpool")

	dsn := BuildDSN(v)
	assert.Contains(t, dsn, "carpool:s3cret@tcp(db:3306)/carpool")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestConnectionWithoutHandle(t *testing.T) {
	c := &Connection{}
	_, err := c.GetDB()
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}
