// Public domain.

package main

import "github.com/DougBurke/ciao-contrib/internal/approg"

func main() {
	approg.Main()
}
