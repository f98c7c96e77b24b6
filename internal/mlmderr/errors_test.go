package mlmderr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesCode(t *testing.T) {
	err := Abortedf("GetSchemaVersion", "schema_version missing, retry")
	assert.True(t, Is(err, Aborted))
	assert.False(t, Is(err, Internal))
}

func TestIsMatchesWrappedError(t *testing.T) {
	base := Internalf("UpgradeMetadataSourceIfOutOfDate", "missing migration_schemes[%d]", 4)
	wrapped := fmt.Errorf("upgrade step: %w", base)
	assert.True(t, Is(wrapped, Internal))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, Internal, CodeOf(errors.New("driver exploded")))
}

func TestWrapUnwrapsToUnderlyingError(t *testing.T) {
	underlying := errors.New("database is locked")
	err := Wrap(Aborted, "PutArtifact", "transient deadlock", underlying)
	require.ErrorIs(t, err, underlying)
}
