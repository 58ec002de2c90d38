package main

import "github.com/killallgit/studio-api/cmd"

// @title           WebAudio Studio API
// @version         1.0.0
// @description     Backend for a browser audio editor: upload audio, trim, split, equalize, extract vocals and download the results
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/studio-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8000
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
