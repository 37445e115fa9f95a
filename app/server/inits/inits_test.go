package inits_test

import (
	"context"
	"os"
	"portfolio-backend/app/server/inits"
	"portfolio-backend/app/server/models"
	"portfolio-backend/app/server/storage"
	"portfolio-backend/app/server/testutil"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()

	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func baseEnv(t *testing.T) {
	t.Helper()

	unsetenv(t, "MODE", "LISTEN", "API_PREFIX", "REDIS_CONN", "CORS_ORIGINS", "LOGIN_RATE_LIMIT",
		"ADMIN_MOBILE", "STORAGE_DRIVER", "UPLOAD_DIR", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT")
	t.Setenv("DB_CONN", "postgres://localhost/portfolio")
	t.Setenv("SIGNATURE_SECRET_KEY", "secret")
	t.Setenv("ADMIN_EMAIL", " Owner@Example.com ")
	t.Setenv("ADMIN_PASSWORD", "pw")
}

func TestConfigDefaults(t *testing.T) {
	baseEnv(t)

	cfg, err := inits.Config()
	require.NoError(t, err)

	assert.False(t, cfg.System.IsProd)
	assert.Equal(t, ":5000", cfg.System.Listen)
	assert.Equal(t, "/v1/portfolio", cfg.System.APIPrefix)
	assert.Equal(t, []string{"*"}, cfg.System.CORSOrigins)
	assert.Equal(t, float64(5), cfg.System.LoginRateLimit)
	assert.Empty(t, cfg.System.RedisConnectionString)
	assert.Equal(t, "owner@example.com", cfg.Admin.Email)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
}

func TestConfigOverrides(t *testing.T) {
	baseEnv(t)
	t.Setenv("MODE", "production")
	t.Setenv("API_PREFIX", "api/")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOGIN_RATE_LIMIT", "0.5")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("S3_BUCKET", "resumes")

	cfg, err := inits.Config()
	require.NoError(t, err)

	assert.True(t, cfg.System.IsProd)
	assert.Equal(t, "/api", cfg.System.APIPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.System.CORSOrigins)
	assert.Equal(t, 0.5, cfg.System.LoginRateLimit)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "resumes", cfg.Storage.S3.Bucket)
	assert.Equal(t, "auto", cfg.Storage.S3.Region)
}

func TestConfigErrors(t *testing.T) {
	cases := map[string]func(t *testing.T){
		"missing db":        func(t *testing.T) { unsetenv(t, "DB_CONN") },
		"missing secret":    func(t *testing.T) { unsetenv(t, "SIGNATURE_SECRET_KEY") },
		"missing admin":     func(t *testing.T) { unsetenv(t, "ADMIN_EMAIL") },
		"bad rate limit":    func(t *testing.T) { t.Setenv("LOGIN_RATE_LIMIT", "-1") },
		"unknown driver":    func(t *testing.T) { t.Setenv("STORAGE_DRIVER", "ftp") },
		"s3 without bucket": func(t *testing.T) { t.Setenv("STORAGE_DRIVER", "s3") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			baseEnv(t)
			mutate(t)

			_, err := inits.Config()
			assert.Error(t, err)
		})
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := testutil.DB(t)

	require.NoError(t, inits.SeedAdmin(db, "Owner@Example.com", "13800000000", "first"))
	require.NoError(t, inits.SeedAdmin(db, "other@example.com", "", "second"))

	var admins []models.Admin
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "owner@example.com", admins[0].Email)
	assert.Equal(t, "13800000000", admins[0].MobileNumber)

	match, err := argon2id.ComparePasswordAndHash("first", admins[0].Password)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	db := testutil.DB(t)

	assert.Error(t, inits.SeedAdmin(db, "", "", "pw"))
	assert.Error(t, inits.SeedAdmin(db, "owner@example.com", "", ""))
}

func TestRedis(t *testing.T) {
	rdb, err := inits.Redis("")
	require.NoError(t, err)
	assert.Nil(t, rdb)

	mr := miniredis.RunT(t)
	rdb, err = inits.Redis("redis://" + mr.Addr())
	require.NoError(t, err)
	require.NotNil(t, rdb)
	_ = rdb.Close()

	_, err = inits.Redis("not a url")
	assert.Error(t, err)
}

func TestLocalStorage(t *testing.T) {
	baseEnv(t)
	t.Setenv("UPLOAD_DIR", t.TempDir())

	cfg, err := inits.Config()
	require.NoError(t, err)

	s, err := inits.Storage(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.Local{}, s)
}
