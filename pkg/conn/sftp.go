package conn

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func init() {
	Register(newSFTP, "sftp")
}

// sftpAdapter checks an SFTP endpoint. Extras:
//   - private_key: path to a private key file (password auth otherwise)
//   - known_hosts: path to a known_hosts file for host key verification
//   - host_key: the server's public key in authorized_keys format
//   - known_hosts_insecure: "true" skips host key verification
//
// One of the three host key extras must be given.
type sftpAdapter struct {
	c Conn
}

func newSFTP(c Conn) (Adapter, error) {
	if c.Host == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"sftp connection requires a host").WithField("host")
	}
	if c.User == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"sftp connection requires a user").WithField("user")
	}
	return &sftpAdapter{c: c}, nil
}

// hostKeyCallback builds the host key policy from extras. The adapter never
// connects without one.
func (a *sftpAdapter) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if a.c.Extra("known_hosts_insecure", "") == "true" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec
	}
	if path := a.c.Extra("known_hosts", ""); path != "" {
		cb, err := knownhosts.New(path)
		if err != nil {
			return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
				"cannot read sftp known hosts file")
		}
		return cb, nil
	}
	if raw := a.c.Extra("host_key", ""); raw != "" {
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(raw))
		if err != nil {
			return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
				"cannot parse sftp host key")
		}
		return ssh.FixedHostKey(key), nil
	}
	return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
		"sftp connection requires a known_hosts, host_key, or known_hosts_insecure extra")
}

func (a *sftpAdapter) clientConfig() (*ssh.ClientConfig, error) {
	hostKey, err := a.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	cfg := &ssh.ClientConfig{
		User:            a.c.User,
		HostKeyCallback: hostKey,
	}

	if keyPath := a.c.Extra("private_key", ""); keyPath != "" {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
				"cannot read sftp private key")
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
				"cannot parse sftp private key")
		}
		cfg.Auth = append(cfg.Auth, ssh.PublicKeys(signer))
	}
	if a.c.Password != "" {
		cfg.Auth = append(cfg.Auth, ssh.Password(a.c.Password.Value()))
	}
	if len(cfg.Auth) == 0 {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"sftp connection requires a password or private key")
	}
	return cfg, nil
}

func (a *sftpAdapter) dial(ctx context.Context) (*sftp.Client, func(), error) {
	cfg, err := a.clientConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection, "dial canceled")
	}

	port := a.c.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", a.c.Host, port)

	sshClient, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot reach sftp server").WithDetail("addr", addr)
	}
	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot start sftp subsystem")
	}
	closer := func() {
		client.Close()
		sshClient.Close()
	}
	return client, closer, nil
}

// Ping reports whether the SFTP server accepts the descriptor's credentials
// and the endpoint directory exists.
func (a *sftpAdapter) Ping(ctx context.Context) (bool, error) {
	client, closeClient, err := a.dial(ctx)
	if err != nil {
		return false, err
	}
	defer closeClient()

	root := a.c.Endpoint
	if root == "" {
		root = "."
	}
	info, err := client.Stat(root)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot stat sftp endpoint "+root)
	}
	return info.IsDir(), nil
}

// Exists reports whether the object exists under the endpoint directory.
func (a *sftpAdapter) Exists(ctx context.Context, object string) (bool, error) {
	client, closeClient, err := a.dial(ctx)
	if err != nil {
		return false, err
	}
	defer closeClient()

	_, err = client.Stat(path.Join(a.c.Endpoint, object))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot stat sftp object "+object)
	}
	return true, nil
}

// Glob lists objects under the endpoint matching pattern.
func (a *sftpAdapter) Glob(ctx context.Context, pattern string) ([]string, error) {
	client, closeClient, err := a.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeClient()

	matches, err := client.Glob(path.Join(a.c.Endpoint, pattern))
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeFile,
			"sftp glob failed")
	}
	return matches, nil
}
