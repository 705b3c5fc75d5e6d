package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	app, err := NewApp()
	if err != nil {
		log.Fatalf("Erro ao inicializar a aplicação: %v", err)
	}
	defer app.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Start(":" + port); err != nil {
		log.Fatalf("Erro ao iniciar o servidor: %v", err)
	}
}
