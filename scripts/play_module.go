package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// play_module walks a published module through the player API against a
// running server, always picking the option at -pick (clamped to the last one).

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) send(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if !env.Success {
		return fmt.Errorf("%s %s: %d %s", method, path, env.Code, env.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func main() {
	baseURL := flag.String("base", "http://localhost:3000/api", "API base URL")
	moduleId := flag.String("module", "", "published module id")
	userId := flag.String("user", "", "player user id (the JWT user_id claim)")
	pick := flag.Int("pick", 0, "option index to choose at every node")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if *moduleId == "" || *userId == "" || secret == "" {
		color.Red("-module, -user and JWT_SECRET are required")
		os.Exit(2)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": *userId,
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		color.Red("Failed to sign token: %v", err)
		os.Exit(1)
	}
	c := &client{baseURL: *baseURL, token: token, http: &http.Client{Timeout: time.Minute}}

	color.Cyan("Starting session on module %s", *moduleId)
	var started struct {
		SessionId string `json:"sessionId"`
	}
	if err := c.send("POST", "/sessions", map[string]string{"moduleId": *moduleId}, &started); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Session %s", started.SessionId)

	for step := 1; ; step++ {
		var node struct {
			NodeKey    string `json:"nodeKey"`
			PromptText string `json:"promptText"`
			Options    []struct {
				Id    string `json:"id"`
				Key   string `json:"key"`
				Label string `json:"label"`
			} `json:"options"`
		}
		if err := c.send("GET", "/sessions/"+started.SessionId+"/node", nil, &node); err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		if len(node.Options) == 0 {
			color.Red("Node %s has no options", node.NodeKey)
			os.Exit(1)
		}

		idx := *pick
		if idx < 0 || idx >= len(node.Options) {
			idx = len(node.Options) - 1
		}
		choice := node.Options[idx]
		color.Yellow("\n[%d] %s", step, node.NodeKey)
		fmt.Println(node.PromptText)
		fmt.Printf("-> %s (%s)\n", choice.Label, choice.Key)

		var decided struct {
			AiDialogue    *string        `json:"aiDialogue"`
			RunningScores map[string]int `json:"runningScores"`
			IsComplete    bool           `json:"isComplete"`
		}
		body := map[string]interface{}{"optionId": choice.Id, "timeSpentSeconds": 10}
		if err := c.send("POST", "/sessions/"+started.SessionId+"/decide", body, &decided); err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		if decided.AiDialogue != nil {
			color.Magenta("   %s", *decided.AiDialogue)
		}
		fmt.Printf("   scores: %v\n", decided.RunningScores)
		if decided.IsComplete {
			break
		}
	}

	var results struct {
		FinalScores map[string]interface{} `json:"finalScores"`
		DebriefText *string                `json:"debriefText"`
	}
	if err := c.send("GET", "/sessions/"+started.SessionId+"/results", nil, &results); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Cyan("\nFinal: total %v, grade %v", results.FinalScores["total"], results.FinalScores["grade"])
	if results.DebriefText != nil {
		fmt.Println(*results.DebriefText)
	}
}
