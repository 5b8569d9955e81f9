// Command cli is a small admin tool for a running homehistory server.
// It can register a user (prompting for the password without echo) and
// upload an attachment through the full presign / transfer / persist
// flow.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/akarpov87/homehistory/internal/netx"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func postJSON(url, token string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, b)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func register(serverURL, role string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Enter name")
	name, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Enter email")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Enter password")
	password, err := readPassword()
	if err != nil {
		return err
	}

	err = postJSON(serverURL+"/api/register", "", registerRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: string(password),
		Role:     role,
	}, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Success!")
	return nil
}

func login(serverURL string, in io.Reader, out io.Writer) (string, error) {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Enter email")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	fmt.Fprintln(out, "Enter password")
	password, err := readPassword()
	if err != nil {
		return "", err
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	err = postJSON(serverURL+"/api/login", "", map[string]string{
		"email":    strings.TrimSpace(email),
		"password": string(password),
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// upload walks the three-phase flow: request a presigned URL, PUT the
// file straight to storage, then register the metadata.
func upload(ctx context.Context, serverURL, homeID, recordID, path, contentType string, in io.Reader, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	filename := filepath.Base(path)

	token, err := login(serverURL, in, out)
	if err != nil {
		return err
	}

	var cred struct {
		Key       string `json:"key"`
		URL       string `json:"url"`
		PublicURL string `json:"publicUrl"`
	}
	err = postJSON(serverURL+"/api/uploads/presign", token, map[string]any{
		"homeId":      homeID,
		"recordId":    recordID,
		"filename":    filename,
		"contentType": contentType,
		"size":        len(data),
	}, &cred)
	if err != nil {
		return fmt.Errorf("presign: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, cred.URL, contentType, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	var persisted struct {
		Ok    bool `json:"ok"`
		Count int  `json:"count"`
	}
	err = postJSON(fmt.Sprintf("%s/api/home/%s/records/%s/attachments", serverURL, homeID, recordID), token,
		[]map[string]any{{
			"filename":    filename,
			"storageKey":  cred.Key,
			"contentType": contentType,
			"size":        len(data),
			"url":         cred.PublicURL,
		}}, &persisted)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	fmt.Fprintf(out, "Uploaded %s (%d attachment registered)\n", cred.Key, persisted.Count)
	return nil
}

func main() {
	serverURL := flag.String("s", "http://localhost:8080", "server base URL")
	role := flag.String("r", "", "user role for register (HOMEOWNER, PRO, ADMIN)")
	homeID := flag.String("home", "", "home id for upload")
	recordID := flag.String("record", "", "record id for upload")
	contentType := flag.String("t", "application/octet-stream", "content type for upload")
	flag.Parse()

	base := strings.TrimSuffix(*serverURL, "/")

	var err error
	switch flag.Arg(0) {
	case "", "register":
		err = register(base, *role, os.Stdin, os.Stdout)
	case "upload":
		if *homeID == "" || *recordID == "" || flag.Arg(1) == "" {
			err = fmt.Errorf("usage: cli -home <id> -record <id> upload <file>")
		} else {
			err = upload(context.Background(), base, *homeID, *recordID, flag.Arg(1), *contentType, os.Stdin, os.Stdout)
		}
	default:
		err = fmt.Errorf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
