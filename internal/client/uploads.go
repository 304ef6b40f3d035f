package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// uploadsDriver serves the file-storage service. It speaks multipart on the
// way up and raw bytes on the way down; stored files are addressed by the
// JWT returned at upload time.
type uploadsDriver struct {
	httpClient *fbhttp.Client
	uploadPath string
	singleName string
}

func newUploadsDriver(httpClient *fbhttp.Client, uploadPath, singleName string) *uploadsDriver {
	return &uploadsDriver{
		httpClient: httpClient,
		uploadPath: uploadPath,
		singleName: singleName,
	}
}

// Get streams back an uploaded file. The caller owns the response body.
func (d *uploadsDriver) Get(ctx context.Context, jwt string) (*http.Response, error) {
	path := "/uploads/" + d.uploadPath + "/" + jwt

	resp, err := d.httpClient.DoRaw(ctx, &fbhttp.Request{
		Method: http.MethodGet,
		Path:   path,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		return nil, uploadError(resp.StatusCode, body)
	}

	return resp, nil
}

// Upload stores the content and returns its access JWT. For images the
// service also returns a direct link, which is merged into the entity
// payload.
func (d *uploadsDriver) Upload(ctx context.Context, accountID string, content io.Reader) (*freshbooks.Result, error) {
	return d.upload(ctx, accountID, content, "upload")
}

// UploadFile uploads the file at the given path.
func (d *uploadsDriver) UploadFile(ctx context.Context, accountID, path string) (*freshbooks.Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return d.upload(ctx, accountID, file, filepath.Base(path))
}

func (d *uploadsDriver) upload(ctx context.Context, accountID string, content io.Reader, filename string) (*freshbooks.Result, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("content", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	_, err = io.Copy(part, content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	path := "/uploads/account/" + accountID + "/" + d.uploadPath

	resp, err := d.httpClient.Do(ctx, &fbhttp.Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     bytes.NewReader(buf.Bytes()),
		ContentType: writer.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, uploadError(resp.StatusCode, resp.Body)
	}

	entity, ok := body[d.singleName].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s %w", d.uploadPath, ErrUnexpectedResponse)
	}

	if link, ok := body["link"].(string); ok && link != "" {
		entity["link"] = link
	}

	return freshbooks.NewResult(d.singleName, body), nil
}

// uploadError surfaces the service's error field, degrading to the raw body
// when it is not JSON.
func uploadError(statusCode int, body []byte) error {
	apiErr := &freshbooks.Error{
		StatusCode: statusCode,
		Message:    "Unknown error",
		Raw:        string(body),
	}

	var parsed map[string]interface{}

	if err := json.Unmarshal(body, &parsed); err != nil {
		apiErr.Message = "Failed to parse response"

		return apiErr
	}

	if message, ok := parsed["error"].(string); ok {
		apiErr.Message = message
	}

	return apiErr
}
