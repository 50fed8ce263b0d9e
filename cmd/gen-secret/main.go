// Command gen-secret prints a random value suitable for SESSION_SECRET.
// Stored Google tokens are sealed under a key derived from this secret,
// so rotating it signs every user out.
package main

import (
	"fmt"

	"lawyer_app_go/config"
)

func main() {
	fmt.Println(config.GenerateSecureSecret())
}
