package main

import (
	"flag"
	"log"
	"time"

	"tiendarec-tf/internal/config"
	"tiendarec-tf/internal/train"
)

// Job de entrenamiento: corre una vez por batch, lee el CSV de entrada y
// escribe el artefacto completo con swap atómico. La API lo levanta en el
// próximo request o vía POST /admin/model/reload.
func main() {
	cfg := config.Load()

	dataPath := flag.String("data", cfg.DataFile, "CSV de entrada")
	outPath := flag.String("out", cfg.ModelPath, "ruta del artefacto de salida")
	flag.Parse()

	start := time.Now()

	rows, err := train.LoadDataset(*dataPath)
	if err != nil {
		log.Fatalf("[train] error cargando dataset: %v", err)
	}
	log.Printf("[train] dataset cargado: %d filas", len(rows))

	art, err := train.Train(rows)
	if err != nil {
		log.Fatalf("[train] error entrenando: %v", err)
	}
	log.Printf("[train] modelo entrenado: %d productos, %d usuarios, %d populares",
		len(art.ProductIDs), len(art.UserIDs), len(art.PopularItems))

	if err := train.SaveArtifact(art, *outPath); err != nil {
		log.Fatalf("[train] error guardando artefacto: %v", err)
	}

	log.Printf("[train] artefacto guardado en %s (%s)", *outPath, time.Since(start))
}
