package content

import "ar-quiz-service/internal/domain"

// TextRow is the fixed text for one question slot. Answers[0] is the correct answer.
type TextRow struct {
	Question    string
	Answers     [domain.AnswersPerQuestion]string
	Explanation string
}

// TextTable maps a subject to its per-index question texts.
type TextTable map[domain.Subject][]TextRow

// DefaultTexts is the built-in question bank. Rows are reused for every level of a subject.
var DefaultTexts = TextTable{
	domain.SubjectGeology: {
		{"Which mineral is the hardest?", [4]string{"Diamond", "Quartz", "Topaz", "Ruby"},
			"Diamond scores 10 on the Mohs scale, making it the hardest mineral."},
		{"Which rock forms from magma?", [4]string{"Igneous", "Sedimentary", "Metamorphic", "Volcanic glass"},
			"Igneous rocks form when magma or lava cools and solidifies."},
		{"Which rock type forms from deposited sediment?", [4]string{"Sedimentary", "Igneous", "Metamorphic", "Crystalline"},
			"Sedimentary rocks form from accumulated sand, clay and organic material."},
		{"What causes earthquakes?", [4]string{"Tectonic plate movement", "Volcanic eruptions", "Soil erosion", "Meteorite impacts"},
			"Earthquakes are caused by the movement of the tectonic plates that make up the crust."},
		{"Which process forms caves in limestone?", [4]string{"Weathering and dissolution", "Volcanic activity", "Tectonic shifts", "Meteorite impacts"},
			"Limestone caves form through karst weathering and dissolution."},
		{"Where is the largest volcano in the Solar System?", [4]string{"On Mars", "On Earth", "On Venus", "On Jupiter"},
			"Olympus Mons, the largest volcano in the Solar System, is on Mars."},
		{"Which mineral has the formula NaCl?", [4]string{"Halite", "Quartz", "Pyrite", "Graphite"},
			"Halite is the mineral name of rock salt, NaCl."},
		{"What makes up most of the Earth's crust?", [4]string{"Silicates", "Carbonates", "Metals", "Organic compounds"},
			"Most of the crust consists of silicate minerals and rocks."},
		{"Which rock type can contain fossils?", [4]string{"Sedimentary", "Igneous", "Metamorphic", "Volcanic"},
			"Sedimentary rocks preserve the remains of organisms trapped in their layers."},
		{"What is geothermal energy?", [4]string{"Heat from the Earth's interior", "Solar energy", "Wind energy", "Hydro energy"},
			"Geothermal energy is thermal energy generated and stored inside the Earth."},
	},
	domain.SubjectBotany: {
		{"Which process turns sunlight into plant energy?", [4]string{"Photosynthesis", "Respiration", "Transpiration", "Fermentation"},
			"Photosynthesis uses sunlight to make glucose from water and carbon dioxide."},
		{"Which part of a plant absorbs water?", [4]string{"Root", "Leaf", "Stem", "Flower"},
			"Roots absorb water and minerals from the soil."},
		{"Which gas do plants release during photosynthesis?", [4]string{"Oxygen", "Carbon dioxide", "Nitrogen", "Hydrogen"},
			"Plants take in carbon dioxide and release oxygen."},
		{"What is the male part of a flower called?", [4]string{"Stamen", "Pistil", "Petal", "Sepal"},
			"The stamen, made of anther and filament, produces pollen."},
		{"Which organisms lack true roots, stems and leaves?", [4]string{"Algae", "Conifers", "Flowering plants", "Mosses"},
			"Algae have no true roots, stems or leaves."},
		{"Which plant can survive in the desert?", [4]string{"Cactus", "Palm", "Birch", "Lily"},
			"Cacti store water and have reduced leaves to limit moisture loss."},
		{"What is the study of fungi called?", [4]string{"Mycology", "Phytology", "Botany", "Dendrology"},
			"Mycology is the science of fungi."},
		{"Which hormone drives plant growth?", [4]string{"Auxin", "Cytokinin", "Ethylene", "Abscisic acid"},
			"Auxin controls growth and tropisms."},
		{"Which plant has the largest flower in the world?", [4]string{"Rafflesia", "Sunflower", "Rose", "Lotus"},
			"Rafflesia arnoldii flowers reach up to one metre across."},
		{"How do plants resist pests?", [4]string{"All of the above", "They produce toxins", "They grow thorns", "They release odours"},
			"Plants combine toxins, thorns and odours to defend themselves."},
	},
	domain.SubjectAnatomy: {
		{"How many bones are in the adult human body?", [4]string{"206", "180", "250", "300"},
			"The adult skeleton has 206 bones."},
		{"Which organ produces insulin?", [4]string{"Pancreas", "Liver", "Kidneys", "Spleen"},
			"The pancreas produces insulin, which regulates blood sugar."},
		{"What is the largest artery in the human body?", [4]string{"Aorta", "Carotid artery", "Pulmonary artery", "Femoral artery"},
			"The aorta leaves the left ventricle and is the largest artery."},
		{"Which organ filters toxins from the blood?", [4]string{"Liver", "Kidneys", "Spleen", "Lungs"},
			"The liver filters blood and removes toxins."},
		{"How many chambers does the human heart have?", [4]string{"4", "2", "3", "5"},
			"The heart has two atria and two ventricles."},
		{"Which organ produces bile?", [4]string{"Liver", "Pancreas", "Gallbladder", "Spleen"},
			"The liver produces bile, which is stored in the gallbladder."},
		{"Which blood component carries oxygen?", [4]string{"Red blood cells", "White blood cells", "Platelets", "Plasma"},
			"Red blood cells carry oxygen bound to haemoglobin."},
		{"Which cells make up the nervous system?", [4]string{"Neurons", "Erythrocytes", "Myocytes", "Leukocytes"},
			"Neurons transmit electrical and chemical signals."},
		{"Where is the pituitary gland?", [4]string{"In the brain", "In the neck", "In the chest", "In the abdomen"},
			"The pituitary sits at the base of the brain."},
		{"What is the longest bone in the human body?", [4]string{"Femur", "Humerus", "Tibia", "Radius"},
			"The femur is the longest bone in the body."},
	},
}

// Palette holds the answer object colors.
var Palette = []string{"#FF5733", "#33FF57", "#3357FF", "#F3FF33", "#FF33F3", "#33FFF3", "#FF8333", "#8333FF"}
