package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// GDriveService uploads list exports to a shared Google Drive folder
type GDriveService struct {
	service  *drive.Service
	folderID string
}

// NewGDriveService creates a Drive client from OAuth2 client credentials and
// a previously saved token. A refreshed token is written back to tokenPath.
func NewGDriveService(ctx context.Context, credentialsPath, tokenPath, folderID string, log *zap.Logger) (*GDriveService, error) {
	credBytes, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(credBytes, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	tokenSource := config.TokenSource(ctx, token)

	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	if newToken.AccessToken != token.AccessToken {
		if err := saveToken(tokenPath, newToken); err != nil {
			log.Warn("failed to save refreshed drive token", zap.Error(err))
		}
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &GDriveService{
		service:  service,
		folderID: folderID,
	}, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// Upload stores the file in the export folder and returns its web link.
// Exports are shared with the folder's audience only, never made public.
func (g *GDriveService) Upload(ctx context.Context, filename, mimeType string, file io.Reader) (string, error) {
	driveFile := &drive.File{
		Name:     filename,
		MimeType: mimeType,
		Parents:  []string{g.folderID},
	}

	createdFile, err := g.service.Files.Create(driveFile).
		Context(ctx).
		Media(file).
		Fields("id, webViewLink").
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if createdFile.WebViewLink != "" {
		return createdFile.WebViewLink, nil
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", createdFile.Id), nil
}
