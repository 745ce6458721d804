package azure

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azerrors "github.com/objectfs/azurefs/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   azerrors.ErrorCode
		wantStatus int
	}{
		{
			name:       "not found",
			err:        &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "BlobNotFound"},
			wantCode:   azerrors.ErrCodeObjectNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "forbidden",
			err:        &azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "AuthorizationFailure"},
			wantCode:   azerrors.ErrCodeAccessDenied,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unauthorized",
			err:        &azcore.ResponseError{StatusCode: http.StatusUnauthorized, ErrorCode: "NoAuthenticationInformation"},
			wantCode:   azerrors.ErrCodeAccessDenied,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "server busy",
			err:        &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable, ErrorCode: "ServerBusy"},
			wantCode:   azerrors.ErrCodeTransportError,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:     "plain error",
			err:      errors.New("connection reset"),
			wantCode: azerrors.ErrCodeTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translated := translateError(tt.err, "Properties", "container", "key")
			assert.True(t, azerrors.IsCode(translated, tt.wantCode), "code of %v", translated)

			var structured *azerrors.AzureFSError
			require.ErrorAs(t, translated, &structured)
			assert.Equal(t, "container", structured.Context["container"])
			assert.Equal(t, "key", structured.Context["key"])
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, structured.Details["status_code"])
			}
			assert.ErrorIs(t, translated, tt.err, "translated error should wrap the original")
		})
	}
}
