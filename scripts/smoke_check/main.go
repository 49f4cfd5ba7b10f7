package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Auth     bool            `json:"auth"`
	Expect   int             `json:"expect"`
	Critical bool            `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/api/public/health", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/api/public/ready", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/api/users/verify-token", Expect: http.StatusUnauthorized},
	{Method: http.MethodGet, Path: "/api/courses", Expect: http.StatusUnauthorized, Critical: true},
	{Method: http.MethodGet, Path: "/api/courses", Auth: true, Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/api/categories/active", Auth: true, Expect: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/reports/enrollments", Auth: true, Expect: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/user/laptops", Auth: true, Expect: http.StatusOK},
	{Method: http.MethodPost, Path: "/api/verify-payment", Body: json.RawMessage(`{}`), Expect: http.StatusBadRequest},
}

func main() {
	var (
		baseURL     string
		targetsPath string
		email       string
		password    string
		timeout     time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "EduLearn API base URL")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON targets file")
	flag.StringVar(&email, "email", os.Getenv("SEED_ADMIN_EMAIL"), "Login email for authenticated targets")
	flag.StringVar(&password, "password", os.Getenv("SEED_ADMIN_PASSWORD"), "Login password for authenticated targets")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(timeout)

	token := ""
	if email != "" && password != "" {
		var err error
		token, err = login(client, email, password)
		if err != nil {
			log.Printf("login failed, authenticated targets will fail: %v", err)
		}
	}

	var (
		results  []result
		breaking int
		optional int
	)
	for _, t := range targets {
		res := check(client, token, t)
		if res.Error != nil || res.Status != t.Expect {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Breaking failures: %d, Optional failures: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func login(client *resty.Client, email, password string) (string, error) {
	var payload struct {
		Token string `json:"token"`
	}
	resp, err := client.R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&payload).
		Post("/api/users/login")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("login returned %d", resp.StatusCode())
	}
	if payload.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return payload.Token, nil
}

func check(client *resty.Client, token string, tgt target) result {
	res := result{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req := client.R()
	if tgt.Auth && token != "" {
		req.SetAuthToken(token)
	}
	if len(tgt.Body) > 0 {
		req.SetHeader("Content-Type", "application/json").SetBody([]byte(tgt.Body))
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		res.Error = err
		return res
	}
	res.Status = resp.StatusCode()
	res.Duration = resp.Time()
	return res
}

func printReport(results []result) {
	fmt.Println("Smoke Check Report")
	fmt.Println("==================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Target.Expect {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (expected %d) in %s | Critical: %t\n", res.Status, res.Target.Expect, res.Duration, res.Target.Critical)
	}
}
