// Package docs contiene la documentación OpenAPI servida en /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Iniciar sesión",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Credenciales",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/accounts.loginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Datos inválidos"
					},
					"401": {
						"description": "Credenciales inválidas"
					},
					"429": {
						"description": "Too Many Requests"
					}
				}
			}
		},
		"/auth/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Registrar usuario",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Datos de registro",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/accounts.registerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Datos inválidos"
					},
					"409": {
						"description": "El email ya está registrado"
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Cerrar sesión",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					}
				}
			}
		},
		"/auth/forgot-password": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Recuperar contraseña",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Email",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/accounts.forgotPasswordRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Email no encontrado"
					}
				}
			}
		},
		"/auth/session": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Sesión actual del dispositivo",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/pets": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Listar mascotas activas",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"pets"
				],
				"summary": "Publicar mascota",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"description": "Datos de la mascota",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/pets.createPetRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Validación"
					},
					"401": {
						"description": "unauthorized"
					}
				}
			}
		},
		"/pets/available": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Mascotas disponibles para adopción (excluye las propias)",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/pets/search": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Buscar mascotas disponibles",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Texto libre",
						"name": "q",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Raza",
						"name": "breed",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Macho | Hembra",
						"name": "gender",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Ubicación",
						"name": "location",
						"in": "query"
					},
					{
						"type": "boolean",
						"description": "Vacunada",
						"name": "vaccinated",
						"in": "query"
					},
					{
						"type": "boolean",
						"description": "Esterilizada",
						"name": "sterilized",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/pets/{petID}": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Obtener mascota",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de mascota",
						"name": "petID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "pet not found"
					}
				}
			},
			"patch": {
				"tags": [
					"pets"
				],
				"summary": "Actualizar mascota",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de mascota",
						"name": "petID",
						"in": "path",
						"required": true
					},
					{
						"description": "Campos a modificar",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/pets.updatePetRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Validación"
					},
					"403": {
						"description": "forbidden"
					},
					"404": {
						"description": "pet not found"
					}
				}
			},
			"delete": {
				"tags": [
					"pets"
				],
				"summary": "Baja lógica de mascota",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de mascota",
						"name": "petID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"403": {
						"description": "forbidden"
					},
					"404": {
						"description": "pet not found"
					}
				}
			}
		},
		"/me/pets": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Mis mascotas publicadas",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/me/favorites": {
			"get": {
				"tags": [
					"favorites"
				],
				"summary": "IDs favoritos",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/me/favorites/pets": {
			"get": {
				"tags": [
					"favorites"
				],
				"summary": "Mascotas favoritas",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/me/favorites/{petID}": {
			"put": {
				"tags": [
					"favorites"
				],
				"summary": "Agregar favorito",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de mascota",
						"name": "petID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid argument"
					}
				}
			},
			"delete": {
				"tags": [
					"favorites"
				],
				"summary": "Quitar favorito",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de mascota",
						"name": "petID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid argument"
					}
				}
			}
		},
		"/me/favorites/{petID}/toggle": {
			"post": {
				"tags": [
					"favorites"
				],
				"summary": "Alternar favorito",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de mascota",
						"name": "petID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/me/discovery": {
			"get": {
				"tags": [
					"discovery"
				],
				"summary": "Cola de descubrimiento",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/me/swipes": {
			"get": {
				"tags": [
					"discovery"
				],
				"summary": "Historial de swipes",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"discovery"
				],
				"summary": "Registrar swipe",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"description": "Decisión",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/discovery.swipeRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid argument"
					},
					"404": {
						"description": "pet not found"
					}
				}
			}
		},
		"/me/stats": {
			"get": {
				"tags": [
					"discovery"
				],
				"summary": "Estadísticas del usuario",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/dev/reset": {
			"post": {
				"tags": [
					"dev"
				],
				"summary": "Reiniciar la base local",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					}
				}
			}
		}
	},
	"definitions": {
		"accounts.loginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"accounts.registerRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"accounts.forgotPasswordRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				}
			}
		},
		"pets.createPetRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"breed": {
					"type": "string"
				},
				"age": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"color": {
					"type": "string"
				},
				"weight": {
					"type": "string"
				},
				"image": {
					"type": "string"
				},
				"images": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"vaccinated": {
					"type": "boolean"
				},
				"sterilized": {
					"type": "boolean"
				},
				"medicalInfo": {
					"type": "string"
				},
				"personalityTags": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"ownerEmail": {
					"type": "string"
				},
				"ownerName": {
					"type": "string"
				}
			}
		},
		"pets.updatePetRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"breed": {
					"type": "string"
				},
				"age": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"color": {
					"type": "string"
				},
				"weight": {
					"type": "string"
				},
				"images": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"vaccinated": {
					"type": "boolean"
				},
				"sterilized": {
					"type": "boolean"
				},
				"medicalInfo": {
					"type": "string"
				},
				"personalityTags": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"adoptionStatus": {
					"type": "string"
				}
			}
		},
		"discovery.swipeRequest": {
			"type": "object",
			"properties": {
				"petId": {
					"type": "string"
				},
				"action": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Adopit API",
	Description:      "API local de adopción de mascotas: catálogo, favoritos, swipes y sesión.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
