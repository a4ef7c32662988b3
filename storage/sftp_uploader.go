package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"product-intelligence/utils"
)

// SFTPConfig holds the connection settings for the report drop host.
type SFTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	RemoteDir string
}

// SFTPUploader ships exported report files to a remote drop directory.
type SFTPUploader struct {
	cfg    SFTPConfig
	logger *utils.Logger
}

// NewSFTPUploader returns an uploader with defaulted port and remote dir.
func NewSFTPUploader(cfg SFTPConfig, logger *utils.Logger) *SFTPUploader {
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}
	return &SFTPUploader{cfg: cfg, logger: logger}
}

// UploadDir uploads every regular file in localDir to the remote drop
// directory over a single connection. Subdirectories are ignored.
func (u *SFTPUploader) UploadDir(ctx context.Context, localDir string) error {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return fmt.Errorf("sftp: read local dir: %w", err)
	}

	sshClient, err := u.dial(ctx)
	if err != nil {
		return err
	}
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer client.Close()

	if err := client.MkdirAll(u.cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", u.cfg.RemoteDir, err)
	}

	uploaded := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := u.uploadFile(client, filepath.Join(localDir, entry.Name()), entry.Name()); err != nil {
			return err
		}
		uploaded++
	}

	u.logger.Info("[sftp] Uploaded %d files to %s:%s", uploaded, u.cfg.Host, u.cfg.RemoteDir)
	return nil
}

// dial opens the SSH connection, honoring ctx cancellation. ssh.Dial has
// no context parameter, so the dial runs in its own goroutine.
func (u *SFTPUploader) dial(ctx context.Context) (*ssh.Client, error) {
	sshCfg := &ssh.ClientConfig{
		User:            u.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(u.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         20 * time.Second,
	}
	addr := fmt.Sprintf("%s:%d", u.cfg.Host, u.cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial %s: %w", addr, r.err)
		}
		return r.client, nil
	}
}

func (u *SFTPUploader) uploadFile(client *sftp.Client, localPath, name string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	remotePath := path.Join(u.cfg.RemoteDir, name)
	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("sftp: upload %s: %w", name, err)
	}

	u.logger.Debug("[sftp] %s -> %s", name, remotePath)
	return nil
}
