// graphcheck verifies connectivity against the SharePoint/Graph alternate
// store: token, site and drive resolution, then a download of the delivery
// table, optionally saved to disk. Run it before switching the backend over.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tne-registro/tne-backend/internal/config"
	"github.com/tne-registro/tne-backend/internal/graph"
	"github.com/tne-registro/tne-backend/internal/sheet"
)

func main() {
	out := flag.String("o", "", "save the downloaded workbook to this file")
	flag.Parse()

	cfg := config.Load()
	filePath := config.GraphFilePath()
	if cfg.Graph.TenantID == "" || cfg.Graph.ClientID == "" || filePath == "" {
		log.Fatal("faltan TENANT_ID / CLIENT_ID / CLIENT_SECRET / EXCEL_FILE_PATH en el entorno")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	client := graph.New(ctx, cfg.Graph)

	siteID, err := client.SiteID(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("sitio:", siteID)

	driveID, err := client.DriveID(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("drive:", driveID)

	data, _, err := client.Download(ctx, filePath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("descargado %s (%d bytes)\n", filePath, len(data))

	t, err := sheet.Parse(data)
	if err != nil {
		log.Fatal(err)
	}
	sheet.Normalize(t)
	fmt.Printf("filas: %d, columnas: %d\n", t.Len(), len(t.Headers))

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Println("guardado en", *out)
	}
}
